package recordModel

import (
	"context"
	"errors"
	"time"
)

// Migration defaults. These are deliberate placeholders for manual review
// after the migration, named here so policy changes stay auditable.
const (
	SentinelBirthDate  = "1900-01-01"
	DefaultDurationMin = 60
	DefaultStatus      = "done"
	NoteSummaryLimit   = 500
	DocumentNotesLimit = 1000
)

var (
	ErrMissingName = errors.New("record has no usable name")
	ErrNotFound    = errors.New("record not found")
)

type ClientRecord struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type AppointmentRecord struct {
	ClientID    string    `json:"client_id,omitempty"`
	DoctorID    string    `json:"doctor_id,omitempty"`
	RoomID      string    `json:"room_id,omitempty"`
	Date        time.Time `json:"date"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
}

type ClinicalNoteRecord struct {
	AppointmentID string `json:"appointment_id"`
	Summary       string `json:"summary,omitempty"`
	Diagnosis     string `json:"diagnosis,omitempty"`
	Prescription  string `json:"prescription,omitempty"`
}

// Summary is the outcome of one migration run.
type Summary struct {
	Processed int
	Errors    int
}

// BackendClient is the target store. Each Insert is atomic on its own; there
// is no cross-record transaction.
type BackendClient interface {
	Insert(ctx context.Context, table string, record any) (string, error)
	FindByField(ctx context.Context, table, field, value string) (map[string]any, bool, error)
}

// NameCache remembers client names already migrated, keyed on the exact
// name string. A cache miss is not authoritative; the backend is.
type NameCache interface {
	Get(ctx context.Context, name string) (string, bool)
	Put(ctx context.Context, name string, id string) error
}
