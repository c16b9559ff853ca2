// Package extract pulls plain text out of legacy document files. A failed
// extraction yields empty text, not an error: a content-less document
// still migrates as a name-only client record.
package extract

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/clinicops/migrator/pkg/logger_i"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

var logger = logger_i.NewLogger("Document Extraction")

// Supported reports whether the file looks like a legacy patient document.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx", ".doc", ".txt", ".rtf", ".odt":
		return true
	default:
		return false
	}
}

// Text extracts the full text of the file. On failure it logs and returns
// the empty string so the caller proceeds with degraded data.
func Text(path string) string {
	var text string
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		text, err = extractPDF(path)
	} else {
		text, err = cat.File(path)
	}
	if err != nil {
		logger.Error("Extraction failed, continuing with empty content", "path", path, "error", err)
		return ""
	}
	return text
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := protectExtract(page)
		if err != nil {
			logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// protectExtract guards against pathological PDFs that hang the parser.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("timeout")
	}
}
