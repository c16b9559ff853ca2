// Package folder reads legacy patient documents from a local directory,
// one RawSource per supported file.
package folder

import (
	"context"
	"os"
	"path/filepath"

	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/clinicops/migrator/internal/extract"
	"github.com/clinicops/migrator/pkg/logger_i"
)

type Reader struct {
	dir     string
	pending []string
	err     error
	logger  *logger_i.Logger
}

func NewReader(dir string) (*Reader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !extract.Supported(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}

	logger := logger_i.NewLogger("FolderSource")
	logger.Info("Found documents", "dir", dir, "count", len(files))
	return &Reader{dir: dir, pending: files, logger: logger}, nil
}

func (r *Reader) Next(ctx context.Context) (sourceModel.RawSource, bool) {
	if len(r.pending) == 0 || ctx.Err() != nil {
		r.err = ctx.Err()
		return sourceModel.RawSource{}, false
	}
	name := r.pending[0]
	r.pending = r.pending[1:]

	// Local files are always exported documents; native Google Docs only
	// arrive through the Drive source.
	return sourceModel.RawSource{
		Document: &sourceModel.DocumentSource{
			Filename: name,
			Kind:     sourceModel.WordDoc,
			Text:     extract.Text(filepath.Join(r.dir, name)),
		},
	}, true
}

func (r *Reader) Err() error {
	return r.err
}
