// Package db implements the ledger source on top of PostgreSQL.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ledger-resolve/internal/ledger"
)

// Source reads one ledger table. Every query runs in its own read-only
// transaction.
type Source struct {
	db    *sqlx.DB
	table string
}

// NewSource creates a source over table
func NewSource(conn *Connection, table string) *Source {
	return &Source{db: conn.DB, table: table}
}

const schemaQuery = `
	SELECT column_name
	FROM information_schema.columns
	WHERE table_schema = current_schema() AND table_name = $1
	ORDER BY ordinal_position`

// Schema lists the table's columns. A table with no visible columns is
// reported as unavailable.
func (s *Source) Schema(ctx context.Context) (ledger.Schema, error) {
	var columns []string
	if err := s.db.SelectContext(ctx, &columns, schemaQuery, s.table); err != nil {
		return ledger.Schema{}, fmt.Errorf("%w: failed to read columns of %s: %w", ledger.ErrSourceUnavailable, s.table, err)
	}
	if len(columns) == 0 {
		return ledger.Schema{}, fmt.Errorf("%w: table %s not found", ledger.ErrSourceUnavailable, s.table)
	}
	return ledger.Schema{Table: s.table, Columns: columns}, nil
}

// Select runs q against the table
func (s *Source) Select(ctx context.Context, q ledger.Query) ([]ledger.Row, error) {
	query, args := BuildSelect(s.table, q)

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", ledger.ErrSourceUnavailable, err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %w", ledger.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := []ledger.Row{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, ledger.Row{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading rows: %w", ledger.ErrSourceUnavailable, err)
	}

	return result, nil
}

// BuildSelect renders q as a PostgreSQL statement with positional arguments.
// Identifiers are quoted; values are always passed as arguments.
func BuildSelect(table string, q ledger.Query) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()

	if q.Columns == nil {
		sb.Select("*")
	} else {
		cols := make([]string, 0, len(q.Columns))
		for _, c := range q.Columns {
			if c.Literal {
				cols = append(cols, sb.As("''", pq.QuoteIdentifier(c.Name)))
				continue
			}
			cols = append(cols, pq.QuoteIdentifier(c.Name))
		}
		sb.Select(cols...)
	}
	sb.From(pq.QuoteIdentifier(table))

	var conds []string
	for _, f := range q.AnyOf {
		if len(f.Values) == 0 {
			continue
		}
		conds = append(conds, sb.In(pq.QuoteIdentifier(f.Column), sqlbuilder.Flatten(f.Values)...))
	}
	switch len(conds) {
	case 0:
		sb.Where("1 = 0")
	case 1:
		sb.Where(conds[0])
	default:
		sb.Where(sb.Or(conds...))
	}

	if q.Limit > 0 {
		sb.Limit(q.Limit)
	}

	return sb.Build()
}
