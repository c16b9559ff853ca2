// Package export dumps every legacy table to CSV for manual review
// alongside, or instead of, the migration itself.
package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/clinicops/migrator/pkg/logger_i"
)

var logger = logger_i.NewLogger("CSVExport")

// AllTables writes one CSV per legacy table into outputDir. A table that
// fails to export is logged and skipped; the rest still get written.
func AllTables(ctx context.Context, ts sourceModel.TableSource, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	tables, err := ts.ListTables(ctx)
	if err != nil {
		return err
	}

	for _, table := range tables {
		count, err := exportTable(ctx, ts, table, outputDir)
		if err != nil {
			logger.Error("Export failed", "table", table, "error", err)
			continue
		}
		logger.Info("Exported table", "table", table, "rows", count, "dir", outputDir)
	}
	return nil
}

func exportTable(ctx context.Context, ts sourceModel.TableSource, table, outputDir string) (int, error) {
	columns, err := ts.ListColumns(ctx, table)
	if err != nil {
		return 0, err
	}
	reader, err := ts.ReadTable(ctx, table)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(filepath.Join(outputDir, table+".csv"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(columns); err != nil {
		return 0, err
	}

	count := 0
	for {
		raw, ok := reader.Next(ctx)
		if !ok {
			break
		}
		if raw.Row == nil {
			continue
		}
		record := make([]string, len(columns))
		for i, column := range columns {
			record[i] = raw.Row.Columns[column]
		}
		if err := writer.Write(record); err != nil {
			return count, err
		}
		count++
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, err
	}
	return count, reader.Err()
}
