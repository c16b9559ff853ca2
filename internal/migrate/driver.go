// Package migrate walks a legacy source record by record: transform,
// upsert the client, cascade the dependent records, count. One record is
// fully committed before the next begins, and no failure of a single
// record ever aborts the batch or rolls back records already written.
package migrate

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/clinicops/migrator/internal/config"
	"github.com/clinicops/migrator/internal/dedup"
	"github.com/clinicops/migrator/internal/domain/recordModel"
	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/clinicops/migrator/internal/metrics"
	"github.com/clinicops/migrator/internal/schemamap"
	"github.com/clinicops/migrator/internal/transform"
	"github.com/clinicops/migrator/pkg/logger_i"
)

type Driver struct {
	coordinator *dedup.Coordinator
	backend     recordModel.BackendClient
	processed   atomic.Int64
	failed      atomic.Int64
	logger      *logger_i.Logger
}

func NewDriver(coordinator *dedup.Coordinator, backend recordModel.BackendClient) *Driver {
	return &Driver{
		coordinator: coordinator,
		backend:     backend,
		logger:      logger_i.NewLogger("MigrationDriver"),
	}
}

// Progress is read concurrently by the status server while Run is going.
func (d *Driver) Progress() recordModel.Summary {
	return recordModel.Summary{
		Processed: int(d.processed.Load()),
		Errors:    int(d.failed.Load()),
	}
}

// Run migrates every record the reader yields. Table rows need the client
// mapping inferred for their table; document sources carry everything they
// need and ignore the mapping.
func (d *Driver) Run(ctx context.Context, src sourceModel.SourceReader, mapping sourceModel.FieldMapping) recordModel.Summary {
	for {
		raw, ok := src.Next(ctx)
		if !ok {
			break
		}
		label := raw.Label()
		d.logger.Info("Processing record", "source", label)

		if err := d.processOne(ctx, raw, mapping); err != nil {
			d.failed.Add(1)
			metrics.IncrementErrors(sourceKind(raw))
			d.logger.Error("Record failed", "source", label, "error", err)
			continue
		}
		d.processed.Add(1)
		metrics.IncrementProcessed(sourceKind(raw))
	}
	if err := src.Err(); err != nil {
		d.logger.Error("Source reader stopped with error", "error", err)
	}

	summary := d.Progress()
	d.logger.Info("Migration pass finished", "processed", summary.Processed, "errors", summary.Errors)
	return summary
}

func (d *Driver) processOne(ctx context.Context, raw sourceModel.RawSource, mapping sourceModel.FieldMapping) (err error) {
	// A single bad record must never take the batch down.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing %s: %v", raw.Label(), r)
		}
	}()

	var client recordModel.ClientRecord
	var content string

	switch {
	case raw.Document != nil:
		client, err = transform.ClientFromDocument(*raw.Document)
		content = raw.Document.Text
	case raw.Row != nil:
		client, err = transform.ClientFromRow(*raw.Row, mapping)
		if column, ok := mapping[sourceModel.FieldNotes]; ok {
			content = raw.Row.Columns[column]
		}
	default:
		return fmt.Errorf("empty raw source")
	}
	if err != nil {
		return err
	}

	clientID, err := d.coordinator.UpsertClient(ctx, client)
	if err != nil {
		return err
	}

	_, err = d.coordinator.CreateAppointmentWithNote(ctx, clientID, raw.Label(), content)
	return err
}

// RunTableSource discovers the legacy tables, infers each mapping once,
// and migrates clients first, then the standalone appointment table.
func (d *Driver) RunTableSource(ctx context.Context, ts sourceModel.TableSource) (recordModel.Summary, error) {
	tables, err := ts.ListTables(ctx)
	if err != nil {
		return d.Progress(), fmt.Errorf("listing legacy tables: %w", err)
	}

	clientTable, found := schemamap.FindClientTable(tables)
	if !found {
		return d.Progress(), fmt.Errorf("no client table among %v", tables)
	}
	columns, err := ts.ListColumns(ctx, clientTable)
	if err != nil {
		return d.Progress(), fmt.Errorf("listing columns of %s: %w", clientTable, err)
	}
	mapping := schemamap.InferClientMapping(columns)
	d.logger.Info("Inferred client mapping", "table", clientTable, "mapping", mapping)

	reader, err := ts.ReadTable(ctx, clientTable)
	if err != nil {
		return d.Progress(), fmt.Errorf("reading %s: %w", clientTable, err)
	}
	d.Run(ctx, reader, mapping)

	if appointmentTable, ok := schemamap.FindAppointmentTable(tables); ok {
		if err := d.migrateAppointmentTable(ctx, ts, appointmentTable); err != nil {
			d.logger.Error("Appointment table migration failed", "table", appointmentTable, "error", err)
		}
	} else {
		d.logger.Info("No appointment table found, skipping")
	}

	return d.Progress(), nil
}

// migrateAppointmentTable is an insert-only pass: appointment rows are
// never deduplicated and keep nil client/doctor/room references for manual
// assignment later.
func (d *Driver) migrateAppointmentTable(ctx context.Context, ts sourceModel.TableSource, table string) error {
	columns, err := ts.ListColumns(ctx, table)
	if err != nil {
		return err
	}
	mapping := schemamap.InferAppointmentMapping(columns)
	d.logger.Info("Inferred appointment mapping", "table", table, "mapping", mapping)

	reader, err := ts.ReadTable(ctx, table)
	if err != nil {
		return err
	}

	for {
		raw, ok := reader.Next(ctx)
		if !ok {
			break
		}
		if raw.Row == nil {
			continue
		}
		appointment := transform.AppointmentFromRow(*raw.Row, mapping, time.Now())
		if _, err := d.backend.Insert(ctx, config.AppointmentsTable, appointment); err != nil {
			d.failed.Add(1)
			metrics.IncrementErrors("table")
			d.logger.Error("Appointment insert failed", "table", table, "error", err)
			continue
		}
		d.processed.Add(1)
		metrics.IncrementProcessed("table")
	}
	return reader.Err()
}

func sourceKind(raw sourceModel.RawSource) string {
	if raw.Document != nil {
		return "document"
	}
	return "table"
}
