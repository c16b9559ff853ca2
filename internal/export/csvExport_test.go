package export

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTableSource struct {
	tables  []string
	columns map[string][]string
	rows    map[string][]map[string]string
}

func (f *fakeTableSource) ListTables(ctx context.Context) ([]string, error) {
	return f.tables, nil
}

func (f *fakeTableSource) ListColumns(ctx context.Context, table string) ([]string, error) {
	columns, ok := f.columns[table]
	if !ok {
		return nil, errors.New("unknown table")
	}
	return columns, nil
}

func (f *fakeTableSource) ReadTable(ctx context.Context, table string) (sourceModel.SourceReader, error) {
	reader := &sliceReader{}
	for _, columns := range f.rows[table] {
		reader.items = append(reader.items, sourceModel.RawSource{
			Row: &sourceModel.TableRow{Columns: columns, SourceTable: table},
		})
	}
	return reader, nil
}

type sliceReader struct {
	items []sourceModel.RawSource
}

func (r *sliceReader) Next(ctx context.Context) (sourceModel.RawSource, bool) {
	if len(r.items) == 0 {
		return sourceModel.RawSource{}, false
	}
	item := r.items[0]
	r.items = r.items[1:]
	return item, true
}

func (r *sliceReader) Err() error { return nil }

func TestAllTables(t *testing.T) {
	source := &fakeTableSource{
		tables:  []string{"pacientes"},
		columns: map[string][]string{"pacientes": {"nome", "telefone"}},
		rows: map[string][]map[string]string{
			"pacientes": {
				{"nome": "Maria Silva", "telefone": "912345678"},
				{"nome": "João Costa"},
			},
		},
	}

	dir := t.TempDir()
	require.NoError(t, AllTables(context.Background(), source, dir))

	f, err := os.Open(filepath.Join(dir, "pacientes.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"nome", "telefone"},
		{"Maria Silva", "912345678"},
		{"João Costa", ""},
	}, records)
}
