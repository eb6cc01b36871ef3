package ledger

import (
	"fmt"
	"time"
)

// Row is one ledger record. Columns are whatever the source returned, in
// source order.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the named column rendered as text, or "" when the column is
// absent or NULL.
func (r Row) Get(column string) string {
	for i, c := range r.Columns {
		if c == column && i < len(r.Values) {
			return text(r.Values[i])
		}
	}
	return ""
}

func (r Row) NameNorm() string   { return r.Get(ColumnName) }
func (r Row) Phonetic() string   { return r.Get(ColumnPhonetic) }
func (r Row) Address() string    { return r.Get(ColumnAddress) }
func (r Row) Mobile() string     { return r.Get(ColumnMobile) }
func (r Row) Identifier() string { return r.Get(ColumnIdentifier) }

// Map returns the row as a column to value map for JSON output
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		if i < len(r.Values) {
			m[c] = r.Values[i]
		} else {
			m[c] = nil
		}
	}
	return m
}

// Strings renders every value as text, in column order
func (r Row) Strings() []string {
	out := make([]string, len(r.Columns))
	for i := range r.Columns {
		if i < len(r.Values) {
			out[i] = text(r.Values[i])
		}
	}
	return out
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
