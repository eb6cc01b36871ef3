package ledger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSource() *MemorySource {
	return NewMemorySource("ledger",
		[]string{"id", ColumnName, ColumnIdentifier, ColumnAddress},
		[]string{"1", "ram patil", "ABCDE1234F", "pune"},
		[]string{"2", "sunil patil", "PQRSX5678K", "nashik"},
		[]string{"3", "ram patil", "", "pune"},
		[]string{"4", "mahesh joshi"},
	)
}

func TestCapabilitiesOf(t *testing.T) {
	caps := CapabilitiesOf(Schema{Columns: []string{"id", ColumnName, ColumnIdentifier}})

	assert.True(t, caps.HasName)
	assert.True(t, caps.HasIdentifier)
	assert.False(t, caps.HasPhonetic)
	assert.False(t, caps.HasAddress)
	assert.False(t, caps.HasMobile)
	assert.True(t, caps.Has("id"))
}

func TestProject(t *testing.T) {
	caps := Capabilities{HasName: true, HasIdentifier: true}
	cols := caps.Project(CoreColumns...)

	require.Len(t, cols, len(CoreColumns))
	assert.Equal(t, Column{Name: ColumnName}, cols[0])
	assert.Equal(t, Column{Name: ColumnPhonetic, Literal: true}, cols[1])
	assert.Equal(t, Column{Name: ColumnAddress, Literal: true}, cols[2])
	assert.Equal(t, Column{Name: ColumnMobile, Literal: true}, cols[3])
	assert.Equal(t, Column{Name: ColumnIdentifier}, cols[4])
}

func TestMemorySelect(t *testing.T) {
	ctx := context.Background()
	src := sampleSource()

	tests := []struct {
		name  string
		query Query
		ids   []string
	}{
		{
			name:  "empty predicate matches nothing",
			query: Query{},
			ids:   nil,
		},
		{
			name:  "single filter",
			query: Query{AnyOf: []Filter{{Column: ColumnName, Values: []string{"ram patil"}}}},
			ids:   []string{"1", "3"},
		},
		{
			name: "filters are or-ed",
			query: Query{AnyOf: []Filter{
				{Column: ColumnIdentifier, Values: []string{"PQRSX5678K"}},
				{Column: ColumnName, Values: []string{"mahesh joshi"}},
			}},
			ids: []string{"2", "4"},
		},
		{
			name:  "limit",
			query: Query{AnyOf: []Filter{{Column: ColumnName, Values: []string{"ram patil", "sunil patil"}}}, Limit: 2},
			ids:   []string{"1", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := src.Select(ctx, tt.query)
			require.NoError(t, err)
			require.NotNil(t, rows)

			var ids []string
			for _, r := range rows {
				ids = append(ids, r.Get("id"))
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestMemorySelectProjection(t *testing.T) {
	src := sampleSource()
	caps := Capabilities{HasName: true, HasIdentifier: true, HasAddress: true}

	rows, err := src.Select(context.Background(), Query{
		AnyOf:   []Filter{{Column: ColumnIdentifier, Values: []string{"ABCDE1234F"}}},
		Columns: caps.Project(CoreColumns...),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, CoreColumns, row.Columns)
	assert.Equal(t, "ram patil", row.NameNorm())
	assert.Equal(t, "", row.Phonetic())
	assert.Equal(t, "", row.Mobile())
	assert.Equal(t, "pune", row.Address())
	assert.Equal(t, "ABCDE1234F", row.Identifier())
}

func TestMemorySelectUnknownColumn(t *testing.T) {
	_, err := sampleSource().Select(context.Background(), Query{
		AnyOf: []Filter{{Column: ColumnPhonetic, Values: []string{"RM"}}},
	})
	assert.Error(t, err)
}

func TestMemorySelectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sampleSource().Select(ctx, Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRowAccessors(t *testing.T) {
	row := Row{
		Columns: []string{ColumnName, ColumnMobile, "amount"},
		Values:  []any{[]byte("ram"), nil, 42},
	}

	assert.Equal(t, "ram", row.NameNorm())
	assert.Equal(t, "", row.Mobile())
	assert.Equal(t, "", row.Identifier())
	assert.Equal(t, "42", row.Get("amount"))
	assert.Equal(t, []string{"ram", "", "42"}, row.Strings())
	assert.Equal(t, map[string]any{ColumnName: []byte("ram"), ColumnMobile: nil, "amount": 42}, row.Map())
}

func TestReadCSV(t *testing.T) {
	data := "\ufeffid,name_norm,pan_upper\n1,ram patil,ABCDE1234F\n2,sunil patil\n"

	src, err := ReadCSV(strings.NewReader(data), "ledger")
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())

	schema, err := src.Schema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ledger", schema.Table)
	assert.Equal(t, []string{"id", ColumnName, ColumnIdentifier}, schema.Columns)

	rows, err := src.Select(context.Background(), Query{
		AnyOf: []Filter{{Column: ColumnName, Values: []string{"sunil patil"}}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Identifier())
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "ledger")
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte("name_norm\nram patil\n"), 0o644))

	src, err := LoadCSV(path)
	require.NoError(t, err)

	schema, err := src.Schema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "transactions", schema.Table)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	rows, err := sampleSource().Select(context.Background(), Query{
		AnyOf: []Filter{{Column: "id", Values: []string{"1", "4"}}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.Equal(t, "id,name_norm,pan_upper,address\n1,ram patil,ABCDE1234F,pune\n4,mahesh joshi,,\n", buf.String())
}
