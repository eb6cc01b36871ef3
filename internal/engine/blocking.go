package engine

import (
	"context"
	"fmt"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/normalize"
	"github.com/ledger-resolve/internal/phonetics"
)

// Block fetches candidate rows that might belong to the same party as names.
// Tables with a phonetic column are blocked on phonetic keys; others fall
// back to exact normalised-name equality. No query is issued when names
// yield no usable key.
func Block(ctx context.Context, src ledger.Source, caps ledger.Capabilities, names []string, limit int) ([]ledger.Row, error) {
	var filter ledger.Filter
	switch {
	case caps.HasPhonetic:
		filter = ledger.Filter{Column: ledger.ColumnPhonetic, Values: uniqueNonEmpty(names, phonetics.Key)}
	case caps.HasName:
		filter = ledger.Filter{Column: ledger.ColumnName, Values: uniqueNonEmpty(names, normalize.NormalizeName)}
	}

	if len(filter.Values) == 0 {
		return []ledger.Row{}, nil
	}

	rows, err := src.Select(ctx, ledger.Query{
		AnyOf:   []ledger.Filter{filter},
		Columns: caps.Project(ledger.CoreColumns...),
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	return rows, nil
}

// uniqueNonEmpty maps values through fn and drops empty and repeated results,
// keeping first-seen order.
func uniqueNonEmpty(values []string, fn func(string) string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if fn != nil {
			v = fn(v)
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
