package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledger-resolve/internal/ledger"
)

func closureSource() *ledger.MemorySource {
	return ledger.NewMemorySource("ledger", fullColumns,
		party("1", "ram patil", "", "", "ABCDE1234F"),
		party("2", "r patil", "", "", "ABCDE1234F"),
		party("3", "ram patil", "", "", ""),
		party("4", "sunil patil", "", "", "PQRSX5678K"),
	)
}

func TestExpand(t *testing.T) {
	mem := closureSource()

	tests := []struct {
		name  string
		codes []string
		names []string
		limit int
		want  []string
	}{
		{name: "codes only", codes: []string{"abcde 1234f"}, want: []string{"1", "2"}},
		{name: "names only", names: []string{"ram patil"}, want: []string{"1", "3"}},
		{name: "union", codes: []string{"PQRSX5678K"}, names: []string{"ram patil"}, want: []string{"1", "3", "4"}},
		{name: "duplicates collapse", codes: []string{"ABCDE1234F", "ABCDE1234F"}, names: []string{"r patil", "r patil"}, want: []string{"1", "2"}},
		{name: "capped", codes: []string{"ABCDE1234F"}, names: []string{"ram patil"}, limit: 2, want: []string{"1", "2"}},
		{name: "empty sets", want: []string{}},
		{name: "blank values", codes: []string{""}, names: []string{""}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Expand(context.Background(), mem, capsOf(mem), tt.codes, tt.names, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(rows))
		})
	}
}

func TestExpandProjectsAllColumns(t *testing.T) {
	mem := closureSource()

	rows, err := Expand(context.Background(), mem, capsOf(mem), []string{"PQRSX5678K"}, nil, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fullColumns, rows[0].Columns)
}

func TestExpandEmptySetsNeverScanTable(t *testing.T) {
	mem := closureSource()
	src := &recordingSource{Source: mem}

	rows, err := Expand(context.Background(), src, capsOf(mem), nil, nil, 0)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	require.Equal(t, 1, src.calls())
	assert.Empty(t, src.queries[0].AnyOf)
}

func TestExpandSkipsAbsentColumns(t *testing.T) {
	mem := ledger.NewMemorySource("ledger",
		[]string{"id", ledger.ColumnName},
		[]string{"1", "ram patil"},
	)
	src := &recordingSource{Source: mem}

	rows, err := Expand(context.Background(), src, capsOf(mem), []string{"ABCDE1234F"}, []string{"ram patil"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(rows))
	require.Len(t, src.queries[0].AnyOf, 1)
	assert.Equal(t, ledger.ColumnName, src.queries[0].AnyOf[0].Column)
}
