package folder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clinicops/migrator/internal/domain/sourceModel"
)

func TestReader_LocalFilesAreWordDocs(t *testing.T) {
	dir := t.TempDir()
	content := "Nascimento: 03/04/1985\nTelefone: 912345678"
	if err := os.WriteFile(filepath.Join(dir, "Maria Silva.txt"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "backup.xyz"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(dir)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	raw, ok := reader.Next(context.Background())
	if !ok {
		t.Fatal("Expected one document from the directory")
	}
	if raw.Document == nil {
		t.Fatal("Expected a document source")
	}
	if raw.Document.Filename != "Maria Silva.txt" {
		t.Errorf("Filename = %q, want Maria Silva.txt", raw.Document.Filename)
	}
	if raw.Document.Kind != sourceModel.WordDoc {
		t.Errorf("Kind = %v, want WordDoc; local files are always exports", raw.Document.Kind)
	}
	if !strings.Contains(raw.Document.Text, "Telefone: 912345678") {
		t.Errorf("Text = %q, want the file content", raw.Document.Text)
	}

	if _, ok := reader.Next(context.Background()); ok {
		t.Error("Unsupported file was not skipped")
	}
	if err := reader.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}
