package ledger

import (
	"context"
	"fmt"
)

// MemorySource is a read-only ledger table held in memory. It backs file
// based runs of the CLI and the engine tests.
type MemorySource struct {
	table   string
	columns []string
	index   map[string]int
	records [][]string
}

// NewMemorySource creates a table from column names and string records.
// Short records are padded with empty values.
func NewMemorySource(table string, columns []string, records ...[]string) *MemorySource {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	padded := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		copy(row, rec)
		padded = append(padded, row)
	}

	return &MemorySource{
		table:   table,
		columns: append([]string(nil), columns...),
		index:   index,
		records: padded,
	}
}

// Len returns the number of records in the table
func (m *MemorySource) Len() int {
	return len(m.records)
}

// Schema returns the table name and columns
func (m *MemorySource) Schema(ctx context.Context) (Schema, error) {
	if err := ctx.Err(); err != nil {
		return Schema{}, err
	}
	return Schema{Table: m.table, Columns: append([]string(nil), m.columns...)}, nil
}

// Select scans the table in insertion order
func (m *MemorySource) Select(ctx context.Context, q Query) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	projection := q.Columns
	if projection == nil {
		projection = make([]Column, len(m.columns))
		for i, c := range m.columns {
			projection[i] = Column{Name: c}
		}
	}
	for _, col := range projection {
		if _, ok := m.index[col.Name]; !ok && !col.Literal {
			return nil, fmt.Errorf("column %q does not exist in %s", col.Name, m.table)
		}
	}

	filters := make([]memoryFilter, 0, len(q.AnyOf))
	for _, f := range q.AnyOf {
		idx, ok := m.index[f.Column]
		if !ok {
			return nil, fmt.Errorf("column %q does not exist in %s", f.Column, m.table)
		}
		values := make(map[string]bool, len(f.Values))
		for _, v := range f.Values {
			values[v] = true
		}
		filters = append(filters, memoryFilter{index: idx, values: values})
	}

	rows := []Row{}
	for _, rec := range m.records {
		if q.Limit > 0 && len(rows) >= q.Limit {
			break
		}
		if !matchesAny(rec, filters) {
			continue
		}
		rows = append(rows, m.project(rec, projection))
	}
	return rows, nil
}

type memoryFilter struct {
	index  int
	values map[string]bool
}

func matchesAny(rec []string, filters []memoryFilter) bool {
	for _, f := range filters {
		if f.values[rec[f.index]] {
			return true
		}
	}
	return false
}

func (m *MemorySource) project(rec []string, projection []Column) Row {
	row := Row{
		Columns: make([]string, len(projection)),
		Values:  make([]any, len(projection)),
	}
	for i, col := range projection {
		row.Columns[i] = col.Name
		if col.Literal {
			row.Values[i] = ""
			continue
		}
		row.Values[i] = rec[m.index[col.Name]]
	}
	return row
}
