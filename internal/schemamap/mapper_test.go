package schemamap

import (
	"testing"

	"github.com/clinicops/migrator/internal/domain/sourceModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferClientMapping(t *testing.T) {
	t.Run("PortugueseColumns", func(t *testing.T) {
		mapping := InferClientMapping([]string{"Nome", "Telefone", "Email"})
		assert.Equal(t, sourceModel.FieldMapping{
			sourceModel.FieldName:  "Nome",
			sourceModel.FieldPhone: "Telefone",
			sourceModel.FieldEmail: "Email",
		}, mapping)
	})

	t.Run("SubstringMatch", func(t *testing.T) {
		mapping := InferClientMapping([]string{"patient_name", "data_nascimento", "email_address", "observacoes_clinicas"})
		assert.Equal(t, "patient_name", mapping[sourceModel.FieldName])
		assert.Equal(t, "data_nascimento", mapping[sourceModel.FieldBirthDate])
		assert.Equal(t, "email_address", mapping[sourceModel.FieldEmail])
		assert.Equal(t, "observacoes_clinicas", mapping[sourceModel.FieldNotes])
	})

	t.Run("FirstFieldWinsForAmbiguousColumn", func(t *testing.T) {
		// "nome_contacto" contains synonyms of both name and phone; the
		// evaluation order assigns it to name.
		mapping := InferClientMapping([]string{"nome_contacto"})
		assert.Equal(t, "nome_contacto", mapping[sourceModel.FieldName])
		_, hasPhone := mapping[sourceModel.FieldPhone]
		assert.False(t, hasPhone)
	})

	t.Run("UnmatchedColumnsDropped", func(t *testing.T) {
		mapping := InferClientMapping([]string{"id", "created_at", "shoe_size"})
		assert.Empty(t, mapping)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		mapping := InferClientMapping([]string{"NOME_COMPLETO"})
		assert.Equal(t, "NOME_COMPLETO", mapping[sourceModel.FieldName])
	})
}

func TestInferAppointmentMapping(t *testing.T) {
	mapping := InferAppointmentMapping([]string{"paciente_id", "data_consulta", "notas"})
	require.Equal(t, sourceModel.FieldMapping{
		sourceModel.FieldClientID: "paciente_id",
		sourceModel.FieldDate:     "data_consulta",
		sourceModel.FieldNotes:    "notas",
	}, mapping)
}

func TestFindClientTable(t *testing.T) {
	t.Run("CandidateOrder", func(t *testing.T) {
		// Both "clients" and "pacientes" exist; "clients" is earlier in the
		// candidate list and wins regardless of the source ordering.
		table, found := FindClientTable([]string{"pacientes", "invoices", "clients"})
		require.True(t, found)
		assert.Equal(t, "clients", table)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := FindClientTable([]string{"invoices", "rooms"})
		assert.False(t, found)
	})
}

func TestFindAppointmentTable(t *testing.T) {
	table, found := FindAppointmentTable([]string{"consultas", "clients"})
	require.True(t, found)
	assert.Equal(t, "consultas", table)
}
