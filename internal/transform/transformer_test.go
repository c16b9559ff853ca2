package transform

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/clinicops/migrator/internal/domain/recordModel"
	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientRow(columns map[string]string) sourceModel.TableRow {
	return sourceModel.TableRow{Columns: columns, SourceTable: "pacientes"}
}

var clientMapping = sourceModel.FieldMapping{
	sourceModel.FieldName:      "patient_name",
	sourceModel.FieldBirthDate: "nascimento",
	sourceModel.FieldEmail:     "email",
	sourceModel.FieldPhone:     "telefone",
	sourceModel.FieldNotes:     "notas",
}

func TestClientFromRow(t *testing.T) {
	t.Run("FullRow", func(t *testing.T) {
		record, err := ClientFromRow(clientRow(map[string]string{
			"patient_name": "Maria Silva",
			"nascimento":   "25/12/1990",
			"email":        "maria@example.com",
			"telefone":     "912345678",
			"notas":        "  seguimento anual  ",
		}), clientMapping)
		require.NoError(t, err)
		assert.Equal(t, recordModel.ClientRecord{
			Name:      "Maria Silva",
			BirthDate: "1990-12-25",
			Email:     "maria@example.com",
			Phone:     "912345678",
			Notes:     "seguimento anual",
		}, record)
	})

	t.Run("MissingNameRejects", func(t *testing.T) {
		_, err := ClientFromRow(clientRow(map[string]string{
			"patient_name": "",
			"nascimento":   "25/12/1990",
			"email":        "maria@example.com",
		}), clientMapping)
		assert.ErrorIs(t, err, recordModel.ErrMissingName)
	})

	t.Run("UnparseableBirthDateFallsBackToSentinel", func(t *testing.T) {
		record, err := ClientFromRow(clientRow(map[string]string{
			"patient_name": "Maria Silva",
			"nascimento":   "um dia qualquer",
		}), clientMapping)
		require.NoError(t, err)
		assert.Equal(t, recordModel.SentinelBirthDate, record.BirthDate)
	})

	t.Run("UnmappedBirthDateFallsBackToSentinel", func(t *testing.T) {
		record, err := ClientFromRow(clientRow(map[string]string{
			"patient_name": "Maria Silva",
		}), sourceModel.FieldMapping{sourceModel.FieldName: "patient_name"})
		require.NoError(t, err)
		assert.Equal(t, recordModel.SentinelBirthDate, record.BirthDate)
	})

	t.Run("EmailWithoutAtDropped", func(t *testing.T) {
		record, err := ClientFromRow(clientRow(map[string]string{
			"patient_name": "Maria Silva",
			"email":        "not-an-address",
		}), clientMapping)
		require.NoError(t, err)
		assert.Empty(t, record.Email)
	})
}

func TestClientFromDocument(t *testing.T) {
	t.Run("NameOnlyDocument", func(t *testing.T) {
		text := strings.Repeat("x", 1500)
		record, err := ClientFromDocument(sourceModel.DocumentSource{
			Filename: "João Costa.docx",
			Kind:     sourceModel.WordDoc,
			Text:     text,
		})
		require.NoError(t, err)
		assert.Equal(t, "João Costa", record.Name)
		assert.Equal(t, recordModel.SentinelBirthDate, record.BirthDate)
		assert.Equal(t, text[:recordModel.DocumentNotesLimit], record.Notes)
		assert.Empty(t, record.Email)
		assert.Empty(t, record.Phone)
	})

	t.Run("LabeledFieldsExtracted", func(t *testing.T) {
		record, err := ClientFromDocument(sourceModel.DocumentSource{
			Filename: "Ana Lopes.gdoc",
			Kind:     sourceModel.GoogleDoc,
			Text:     "Nascimento: 03/04/1985\nEmail: ana@example.com\nTelefone: 912345678",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana Lopes", record.Name)
		assert.Equal(t, "1985-04-03", record.BirthDate)
		assert.Equal(t, "ana@example.com", record.Email)
		assert.Equal(t, "912345678", record.Phone)
	})

	t.Run("EveryDocumentExtensionStripped", func(t *testing.T) {
		// A leaked extension would split the name-based dedup key, so each
		// extension the folder source admits has to come off the name.
		for _, filename := range []string{
			"Maria Silva.pdf",
			"Maria Silva.txt",
			"Maria Silva.rtf",
			"Maria Silva.odt",
			"Maria Silva.doc",
			"Maria Silva.DOCX",
		} {
			record, err := ClientFromDocument(sourceModel.DocumentSource{
				Filename: filename,
				Kind:     sourceModel.WordDoc,
			})
			require.NoError(t, err)
			assert.Equal(t, "Maria Silva", record.Name, filename)
		}
	})

	t.Run("NotesTruncatedByCharactersNotBytes", func(t *testing.T) {
		text := strings.Repeat("x", recordModel.DocumentNotesLimit-1) + "ãé"
		record, err := ClientFromDocument(sourceModel.DocumentSource{
			Filename: "Maria Silva.docx",
			Kind:     sourceModel.WordDoc,
			Text:     text,
		})
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(record.Notes))
		assert.Equal(t, recordModel.DocumentNotesLimit, utf8.RuneCountInString(record.Notes))
		assert.True(t, strings.HasSuffix(record.Notes, "ã"))
	})

	t.Run("TooShortNameRejects", func(t *testing.T) {
		_, err := ClientFromDocument(sourceModel.DocumentSource{
			Filename: "a.docx",
			Kind:     sourceModel.WordDoc,
		})
		assert.ErrorIs(t, err, recordModel.ErrMissingName)
	})
}

func TestAppointmentFromRow(t *testing.T) {
	now := time.Date(2024, time.June, 1, 15, 30, 0, 0, time.UTC)

	t.Run("Defaults", func(t *testing.T) {
		record := AppointmentFromRow(sourceModel.TableRow{
			Columns:     map[string]string{},
			SourceTable: "consultas",
		}, sourceModel.FieldMapping{}, now)

		assert.Equal(t, now, record.Date)
		assert.Equal(t, recordModel.DefaultDurationMin, record.DurationMin)
		assert.Equal(t, recordModel.DefaultStatus, record.Status)
		assert.Empty(t, record.ClientID)
		assert.Empty(t, record.DoctorID)
		assert.Empty(t, record.RoomID)
	})

	t.Run("MappedDateLandsAtTen", func(t *testing.T) {
		record := AppointmentFromRow(sourceModel.TableRow{
			Columns:     map[string]string{"data_consulta": "25/12/2020", "notas": "revisão"},
			SourceTable: "consultas",
		}, sourceModel.FieldMapping{
			sourceModel.FieldDate:  "data_consulta",
			sourceModel.FieldNotes: "notas",
		}, now)

		assert.Equal(t, time.Date(2020, time.December, 25, 10, 0, 0, 0, time.UTC), record.Date)
		assert.Equal(t, "revisão", record.Notes)
	})

	t.Run("UnparseableDateFallsBackToNow", func(t *testing.T) {
		record := AppointmentFromRow(sourceModel.TableRow{
			Columns:     map[string]string{"data_consulta": "???"},
			SourceTable: "consultas",
		}, sourceModel.FieldMapping{sourceModel.FieldDate: "data_consulta"}, now)

		assert.Equal(t, now, record.Date)
	})
}
