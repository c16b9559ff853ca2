// Package sqlitedb reads the legacy relational database. It only ever
// reads; the legacy file is left untouched so a migration can be re-run.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/clinicops/migrator/pkg/logger_i"
	_ "modernc.org/sqlite"
)

type LegacyDB struct {
	db     *sql.DB
	logger *logger_i.Logger
}

func Open(path string) (*LegacyDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening legacy database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("legacy database %s unreadable: %w", path, err)
	}

	logger := logger_i.NewLogger("LegacyDB")
	logger.Info("Connected to legacy database", "path", path)
	return &LegacyDB{db: db, logger: logger}, nil
}

func (l *LegacyDB) Close() error {
	return l.db.Close()
}

func (l *LegacyDB) ListTables(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (l *LegacyDB) ListColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %q LIMIT 0", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

// ReadTable streams every row of the table as a RawSource.
func (l *LegacyDB) ReadTable(ctx context.Context, table string) (sourceModel.SourceReader, error) {
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return nil, err
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return &tableReader{table: table, columns: columns, rows: rows}, nil
}

type tableReader struct {
	table   string
	columns []string
	rows    *sql.Rows
	err     error
}

func (r *tableReader) Next(ctx context.Context) (sourceModel.RawSource, bool) {
	if ctx.Err() != nil || !r.rows.Next() {
		r.err = r.rows.Err()
		r.rows.Close()
		return sourceModel.RawSource{}, false
	}

	values := make([]any, len(r.columns))
	pointers := make([]any, len(r.columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := r.rows.Scan(pointers...); err != nil {
		r.err = err
		r.rows.Close()
		return sourceModel.RawSource{}, false
	}

	record := make(map[string]string, len(r.columns))
	for i, column := range r.columns {
		if values[i] == nil {
			continue
		}
		record[column] = fmt.Sprint(values[i])
	}

	return sourceModel.RawSource{
		Row: &sourceModel.TableRow{Columns: record, SourceTable: r.table},
	}, true
}

func (r *tableReader) Err() error {
	return r.err
}
