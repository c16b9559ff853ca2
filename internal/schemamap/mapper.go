// Package schemamap infers which legacy column feeds which target field.
// Matching is substring-based over ordered synonym lists; the evaluation
// order below is a documented policy table, reproduced from the system
// this migrator replaces, and a column is assigned to the first target
// field whose synonyms it contains.
package schemamap

import (
	"strings"

	"github.com/clinicops/migrator/internal/domain/sourceModel"
)

type synonymRule struct {
	field    sourceModel.TargetField
	synonyms []string
}

// Rules are evaluated top to bottom per column; first match wins and the
// column is consumed.
var clientRules = []synonymRule{
	{sourceModel.FieldName, []string{"name", "nome", "patient_name", "full_name"}},
	{sourceModel.FieldBirthDate, []string{"birth_date", "data_nascimento", "nascimento", "birthday"}},
	{sourceModel.FieldEmail, []string{"email", "e_mail", "email_address"}},
	{sourceModel.FieldPhone, []string{"phone", "telefone", "telemóvel", "mobile", "contact"}},
	{sourceModel.FieldNotes, []string{"notes", "notas", "observacoes", "comments"}},
}

var appointmentRules = []synonymRule{
	{sourceModel.FieldClientID, []string{"client_id", "patient_id", "cliente_id", "paciente_id"}},
	{sourceModel.FieldDate, []string{"date", "appointment_date", "data", "data_consulta"}},
	{sourceModel.FieldNotes, []string{"notes", "notas", "observacoes", "summary"}},
}

// Candidate legacy table names, probed in order.
var clientTableNames = []string{"clients", "patients", "pacientes", "clientes"}
var appointmentTableNames = []string{"appointments", "consultas", "sessions", "visits"}

// InferClientMapping maps legacy client columns onto the target client
// schema. Unmatched columns are dropped silently; the mapping may be
// partial.
func InferClientMapping(columns []string) sourceModel.FieldMapping {
	return inferMapping(columns, clientRules)
}

// InferAppointmentMapping maps legacy appointment columns onto the target
// appointment schema.
func InferAppointmentMapping(columns []string) sourceModel.FieldMapping {
	return inferMapping(columns, appointmentRules)
}

func inferMapping(columns []string, rules []synonymRule) sourceModel.FieldMapping {
	mapping := make(sourceModel.FieldMapping)
	for _, column := range columns {
		lowered := strings.ToLower(column)
		for _, rule := range rules {
			if containsAny(lowered, rule.synonyms) {
				mapping[rule.field] = column
				break
			}
		}
	}
	return mapping
}

func containsAny(column string, synonyms []string) bool {
	for _, synonym := range synonyms {
		if strings.Contains(column, synonym) {
			return true
		}
	}
	return false
}

// FindClientTable picks the legacy table holding client records, checking
// known names in order.
func FindClientTable(tables []string) (string, bool) {
	return findTable(tables, clientTableNames)
}

// FindAppointmentTable picks the legacy table holding appointment records.
func FindAppointmentTable(tables []string) (string, bool) {
	return findTable(tables, appointmentTableNames)
}

func findTable(tables []string, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		for _, table := range tables {
			if table == candidate {
				return table, true
			}
		}
	}
	return "", false
}
