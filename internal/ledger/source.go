// Package ledger defines the read-only data source contract the resolver
// runs against, together with an in-memory implementation.
package ledger

import (
	"context"
	"errors"
)

// ErrSourceUnavailable is returned when the ledger table cannot be reached or read
var ErrSourceUnavailable = errors.New("ledger source unavailable")

// Column names the resolver understands. Any other column is carried through
// untouched for presentation.
const (
	ColumnName       = "name_norm"
	ColumnPhonetic   = "name_phonetic"
	ColumnAddress    = "address"
	ColumnMobile     = "mobile"
	ColumnIdentifier = "pan_upper"
)

// CoreColumns is the projection used for seed lookups and blocking
var CoreColumns = []string{ColumnName, ColumnPhonetic, ColumnAddress, ColumnMobile, ColumnIdentifier}

// Schema describes the ledger table as discovered at runtime
type Schema struct {
	Table   string
	Columns []string
}

// Has reports whether the table carries the named column
func (s Schema) Has(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Filter matches rows whose Column equals one of Values
type Filter struct {
	Column string
	Values []string
}

// Column is one projected output column. A Literal column is emitted as an
// empty string instead of being read from the table.
type Column struct {
	Name    string
	Literal bool
}

// Query selects rows matching any of its filters. An empty AnyOf matches
// nothing. A nil Columns projects every table column. Limit <= 0 means no cap.
type Query struct {
	AnyOf   []Filter
	Columns []Column
	Limit   int
}

// Source is a read-only ledger table
type Source interface {
	Schema(ctx context.Context) (Schema, error)
	Select(ctx context.Context, q Query) ([]Row, error)
}
