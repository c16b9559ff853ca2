// Package drive lists patient documents in a Google Drive folder and
// extracts their text. Google Docs go through the Docs API; Word files are
// exported as text/plain. Extraction failures degrade to empty content.
package drive

import (
	"context"
	"fmt"
	"io"

	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/clinicops/migrator/pkg/logger_i"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	googleDocMime = "application/vnd.google-apps.document"
	wordDocMime   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type fileRef struct {
	id   string
	name string
	mime string
}

type Reader struct {
	drive   *drive.Service
	docs    *docs.Service
	pending []fileRef
	err     error
	logger  *logger_i.Logger
}

// NewReader lists the folder up front; iteration then only fetches content.
func NewReader(ctx context.Context, folderID string, opts ...option.ClientOption) (*Reader, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}
	docsService, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating docs client: %w", err)
	}

	r := &Reader{
		drive:  driveService,
		docs:   docsService,
		logger: logger_i.NewLogger("DriveSource"),
	}

	query := fmt.Sprintf("'%s' in parents and (mimeType='%s' or mimeType='%s')", folderID, googleDocMime, wordDocMime)
	pageToken := ""
	for {
		call := r.drive.Files.List().Q(query).Fields("nextPageToken, files(id, name, mimeType)").Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		listing, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing folder %s: %w", folderID, err)
		}
		for _, file := range listing.Files {
			r.pending = append(r.pending, fileRef{id: file.Id, name: file.Name, mime: file.MimeType})
		}
		pageToken = listing.NextPageToken
		if pageToken == "" {
			break
		}
	}

	r.logger.Info("Found documents", "folder", folderID, "count", len(r.pending))
	return r, nil
}

func (r *Reader) Next(ctx context.Context) (sourceModel.RawSource, bool) {
	if len(r.pending) == 0 || ctx.Err() != nil {
		r.err = ctx.Err()
		return sourceModel.RawSource{}, false
	}
	file := r.pending[0]
	r.pending = r.pending[1:]

	kind := sourceModel.WordDoc
	if file.mime == googleDocMime {
		kind = sourceModel.GoogleDoc
	}

	return sourceModel.RawSource{
		Document: &sourceModel.DocumentSource{
			Filename: file.name,
			Kind:     kind,
			Text:     r.extractContent(ctx, file),
		},
	}, true
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) extractContent(ctx context.Context, file fileRef) string {
	var text string
	var err error
	if file.mime == googleDocMime {
		text, err = r.extractGoogleDoc(ctx, file.id)
	} else {
		text, err = r.exportPlainText(ctx, file.id)
	}
	if err != nil {
		r.logger.Error("Extraction failed, continuing with empty content", "file", file.name, "error", err)
		return ""
	}
	return text
}

func (r *Reader) extractGoogleDoc(ctx context.Context, docID string) (string, error) {
	document, err := r.docs.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return "", err
	}

	var text string
	for _, element := range document.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, run := range element.Paragraph.Elements {
			if run.TextRun != nil {
				text += run.TextRun.Content
			}
		}
	}
	return text, nil
}

func (r *Reader) exportPlainText(ctx context.Context, fileID string) (string, error) {
	response, err := r.drive.Files.Export(fileID, "text/plain").Context(ctx).Download()
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
