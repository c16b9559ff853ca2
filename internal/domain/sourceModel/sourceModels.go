package sourceModel

import "context"

type DocKind string

var (
	GoogleDoc DocKind = "GoogleDoc"
	WordDoc   DocKind = "WordDoc"
)

// TargetField names a column of the target schema that legacy data can be
// mapped onto.
type TargetField string

const (
	FieldName      TargetField = "name"
	FieldBirthDate TargetField = "birth_date"
	FieldEmail     TargetField = "email"
	FieldPhone     TargetField = "phone"
	FieldNotes     TargetField = "notes"
	FieldClientID  TargetField = "client_id"
	FieldDate      TargetField = "date"
)

// FieldMapping is the inferred correspondence between legacy column names
// and target fields. Built once per table or folder, never mutated after.
// May be partial; a mapping without FieldName makes every row of that
// source unprocessable.
type FieldMapping map[TargetField]string

// DocumentSource is one legacy document after content extraction.
type DocumentSource struct {
	Filename string
	Kind     DocKind
	Text     string
}

// TableRow is one row of a legacy relational table, keyed by column name.
type TableRow struct {
	Columns     map[string]string
	SourceTable string
}

// RawSource is one unit of legacy input. Exactly one of Document or Row is
// set.
type RawSource struct {
	Document *DocumentSource
	Row      *TableRow
}

// Label identifies the record in logs and error reports.
func (r RawSource) Label() string {
	if r.Document != nil {
		return r.Document.Filename
	}
	if r.Row != nil {
		return r.Row.SourceTable + " row"
	}
	return "unknown source"
}

// SourceReader yields legacy records one at a time. Next returns false when
// the source is exhausted; Err reports a reader failure after that.
type SourceReader interface {
	Next(ctx context.Context) (RawSource, bool)
	Err() error
}

// TableSource is a relational legacy source that can additionally report
// its structure, so a mapping can be inferred once per table.
type TableSource interface {
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, table string) ([]string, error)
	ReadTable(ctx context.Context, table string) (SourceReader, error)
}
