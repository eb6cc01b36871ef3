package engine

import (
	"context"
	"fmt"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/normalize"
)

// Expand returns every row whose identifier is in codes or whose normalised
// name is in names. With nothing to match the query degenerates to an
// always-false predicate rather than a full table scan. Filters on columns
// the table lacks are dropped.
func Expand(ctx context.Context, src ledger.Source, caps ledger.Capabilities, codes, names []string, limit int) ([]ledger.Row, error) {
	codes = uniqueNonEmpty(codes, normalize.CanonicalizeIdentifier)
	names = uniqueNonEmpty(names, nil)

	var filters []ledger.Filter
	if caps.HasIdentifier && len(codes) > 0 {
		filters = append(filters, ledger.Filter{Column: ledger.ColumnIdentifier, Values: codes})
	}
	if caps.HasName && len(names) > 0 {
		filters = append(filters, ledger.Filter{Column: ledger.ColumnName, Values: names})
	}

	rows, err := src.Select(ctx, ledger.Query{AnyOf: filters, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to expand closure: %w", err)
	}
	if rows == nil {
		rows = []ledger.Row{}
	}
	return rows, nil
}
