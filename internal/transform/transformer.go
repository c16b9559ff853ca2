// Package transform turns one raw legacy record, plus an inferred field
// mapping, into a validated target-schema record or a rejection.
package transform

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/clinicops/migrator/internal/domain/recordModel"
	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/clinicops/migrator/internal/normalize"
)

// Every extension the folder source admits must be stripped here, or the
// extension leaks into the client name and splits the dedup key.
var docExtension = regexp.MustCompile(`(?i)\.(docx?|gdoc|pdf|txt|rtf|odt)$`)

// ClientFromRow builds a client record from one legacy table row. The only
// hard requirement is a non-empty mapped name; everything else degrades to
// a default or is left unset. An unparseable or unmapped birth date
// becomes the sentinel date, flagging the record for manual correction
// rather than failing it.
func ClientFromRow(row sourceModel.TableRow, mapping sourceModel.FieldMapping) (recordModel.ClientRecord, error) {
	name := strings.TrimSpace(mappedValue(row, mapping, sourceModel.FieldName))
	if name == "" {
		return recordModel.ClientRecord{}, fmt.Errorf("row in %s: %w", row.SourceTable, recordModel.ErrMissingName)
	}

	record := recordModel.ClientRecord{
		Name:      name,
		BirthDate: recordModel.SentinelBirthDate,
	}

	if raw := mappedValue(row, mapping, sourceModel.FieldBirthDate); raw != "" {
		if parsed, err := normalize.ParseDate(raw); err == nil {
			record.BirthDate = parsed.Format("2006-01-02")
		}
	}

	if email := strings.TrimSpace(mappedValue(row, mapping, sourceModel.FieldEmail)); strings.Contains(email, "@") {
		record.Email = email
	}
	if phone := strings.TrimSpace(mappedValue(row, mapping, sourceModel.FieldPhone)); phone != "" {
		record.Phone = phone
	}
	if notes := strings.TrimSpace(mappedValue(row, mapping, sourceModel.FieldNotes)); notes != "" {
		record.Notes = notes
	}

	return record, nil
}

// ClientFromDocument derives a client record from an extracted document.
// The client name comes from the filename with the extension stripped;
// contact details are pulled out of the text by the labeled free-text
// patterns. Rejects only when the derived name is shorter than 2
// characters.
func ClientFromDocument(doc sourceModel.DocumentSource) (recordModel.ClientRecord, error) {
	name := strings.TrimSpace(docExtension.ReplaceAllString(doc.Filename, ""))
	if len(name) < 2 {
		return recordModel.ClientRecord{}, fmt.Errorf("document %q: %w", doc.Filename, recordModel.ErrMissingName)
	}

	record := recordModel.ClientRecord{
		Name:      name,
		BirthDate: recordModel.SentinelBirthDate,
		Notes:     truncate(doc.Text, recordModel.DocumentNotesLimit),
	}

	if birth, ok := normalize.BirthDateFromText(doc.Text); ok {
		record.BirthDate = birth.Format("2006-01-02")
	}
	if email, ok := normalize.ExtractEmail(doc.Text); ok {
		record.Email = email
	}
	if phone, ok := normalize.ExtractPhone(doc.Text); ok {
		record.Phone = phone
	}

	return record, nil
}

// AppointmentFromRow never rejects: every field that cannot be resolved
// from the mapping gets a default, leaving client/doctor/room references
// for manual assignment afterwards.
func AppointmentFromRow(row sourceModel.TableRow, mapping sourceModel.FieldMapping, now time.Time) recordModel.AppointmentRecord {
	record := recordModel.AppointmentRecord{
		Date:        now,
		DurationMin: recordModel.DefaultDurationMin,
		Status:      recordModel.DefaultStatus,
	}

	if raw := mappedValue(row, mapping, sourceModel.FieldDate); raw != "" {
		if parsed, err := normalize.ParseDate(raw); err == nil {
			// Legacy rows carry no time of day; 10:00 is the historical
			// placeholder slot.
			record.Date = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 10, 0, 0, 0, parsed.Location())
		}
	}

	if notes := strings.TrimSpace(mappedValue(row, mapping, sourceModel.FieldNotes)); notes != "" {
		record.Notes = notes
	}

	return record
}

func mappedValue(row sourceModel.TableRow, mapping sourceModel.FieldMapping, field sourceModel.TargetField) string {
	column, ok := mapping[field]
	if !ok {
		return ""
	}
	return row.Columns[column]
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
