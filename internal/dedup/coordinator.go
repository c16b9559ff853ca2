// Package dedup decides insert-versus-reuse for client records and creates
// the dependent appointment and clinical-note records.
//
// Deduplication is keyed on the exact client name string. No case folding,
// no accent stripping, no fuzzy matching: differently formatted names of
// the same person become separate rows, which is a known limitation of the
// migration rather than something to repair here.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicops/migrator/internal/config"
	"github.com/clinicops/migrator/internal/domain/recordModel"
	"github.com/clinicops/migrator/internal/metrics"
	"github.com/clinicops/migrator/internal/normalize"
	"github.com/clinicops/migrator/pkg/logger_i"
)

type Coordinator struct {
	backend recordModel.BackendClient
	cache   recordModel.NameCache
	logger  *logger_i.Logger
}

func NewCoordinator(backend recordModel.BackendClient, cache recordModel.NameCache) *Coordinator {
	return &Coordinator{
		backend: backend,
		cache:   cache,
		logger:  logger_i.NewLogger("DedupCoordinator"),
	}
}

// UpsertClient returns the id of the target row for this client. An
// existing row with the same name is reused untouched — no merge, no
// update-in-place — otherwise the record is inserted.
func (c *Coordinator) UpsertClient(ctx context.Context, record recordModel.ClientRecord) (string, error) {
	if id, found := c.cache.Get(ctx, record.Name); found {
		metrics.IncrementDeduplicated()
		c.logger.Debug("Client known from cache", "name", record.Name, "id", id)
		return id, nil
	}

	existing, found, err := c.backend.FindByField(ctx, config.ClientsTable, "name", record.Name)
	if err != nil {
		return "", fmt.Errorf("looking up client %q: %w", record.Name, err)
	}
	if found {
		id, _ := existing["id"].(string)
		metrics.IncrementDeduplicated()
		c.logger.Info("Client already exists", "name", record.Name)
		c.rememberName(ctx, record.Name, id)
		return id, nil
	}

	id, err := c.backend.Insert(ctx, config.ClientsTable, record)
	if err != nil {
		return "", fmt.Errorf("creating client %q: %w", record.Name, err)
	}
	c.logger.Info("Client created", "name", record.Name, "id", id)
	c.rememberName(ctx, record.Name, id)
	return id, nil
}

// CreateAppointmentWithNote creates exactly one appointment and its
// dependent clinical note. Dependent records are never deduplicated; a
// re-run recreates them. If the appointment insert fails the note is not
// attempted.
func (c *Coordinator) CreateAppointmentWithNote(ctx context.Context, clientID, sourceLabel, content string) (string, error) {
	appointment := recordModel.AppointmentRecord{
		ClientID:    clientID,
		Date:        time.Now(),
		DurationMin: recordModel.DefaultDurationMin,
		Status:      recordModel.DefaultStatus,
		Notes:       "Importado de: " + sourceLabel,
	}
	if date, ok := normalize.AnyDateFromText(content); ok {
		appointment.Date = date
	}

	appointmentID, err := c.backend.Insert(ctx, config.AppointmentsTable, appointment)
	if err != nil {
		return "", fmt.Errorf("creating appointment for client %s: %w", clientID, err)
	}

	note := recordModel.ClinicalNoteRecord{
		AppointmentID: appointmentID,
		Summary:       truncate(content, recordModel.NoteSummaryLimit),
	}
	if _, err := c.backend.Insert(ctx, config.ClinicalNotesTable, note); err != nil {
		return appointmentID, fmt.Errorf("creating clinical note for appointment %s: %w", appointmentID, err)
	}

	c.logger.Debug("Appointment and note created", "client", clientID, "appointment", appointmentID)
	return appointmentID, nil
}

func (c *Coordinator) rememberName(ctx context.Context, name, id string) {
	if err := c.cache.Put(ctx, name, id); err != nil {
		c.logger.Warn("Could not cache migrated name", "name", name, "error", err)
	}
}

// truncate limits by characters, not bytes; accented text must never be
// cut mid-rune.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
