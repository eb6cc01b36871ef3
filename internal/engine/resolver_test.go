package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/phonetics"
)

func newTestResolver(t *testing.T, src ledger.Source, settings Settings) *Resolver {
	t.Helper()
	r, err := NewResolver(context.Background(), src, settings, zaptest.NewLogger(t))
	require.NoError(t, err)
	return r
}

// A Devanagari seed row, its Latin spelling under another PAN, a row
// sharing that second PAN, and a decoy forced into the same block.
func crossScriptLedger() *ledger.MemorySource {
	seedKey := phonetics.Key("चिरायु संजय गिरी")
	return ledger.NewMemorySource("ledger", fullColumns,
		party("1", "चिरायु संजय गिरी", "pune", "", "ABCDE1234F"),
		party("2", "chirayu sanjay giri", "kothrud pune", "9822000000", "PQRSX5678K"),
		party("3", "c s giri", "", "", "PQRSX5678K"),
		[]string{"4", "ramesh kulkarni", seedKey, "pune", "", "ZZZZZ9999Z"},
		party("5", "sunil patil", "nashik", "", "LMNOP1111Q"),
	)
}

func TestSearchByIdentifierCrossScript(t *testing.T) {
	mem := crossScriptLedger()
	src := &recordingSource{Source: mem}
	r := newTestResolver(t, src, DefaultSettings())

	res, err := r.Resolve(context.Background(), Request{Identifier: " abcde1234f "})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, ids(res.Rows))
	assert.Equal(t, []string{"चिरायु संजय गिरी"}, res.CanonicalNames)
	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 2, res.Verified)
	assert.Equal(t, 1, res.Hops)

	// seed lookup, blocking, expansion
	assert.Equal(t, 3, src.calls())
}

func TestSearchByIdentifierUnknown(t *testing.T) {
	src := &recordingSource{Source: crossScriptLedger()}
	r := newTestResolver(t, src, DefaultSettings())

	rows, err := r.SearchByIdentifier(context.Background(), "QQQQQ0000Q")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, 1, src.calls())
}

func TestSearchByIdentifierWithoutNames(t *testing.T) {
	mem := ledger.NewMemorySource("ledger", fullColumns,
		party("1", "", "", "", "ABCDE1234F"),
		party("2", "", "", "", "ABCDE1234F"),
		party("3", "sunil patil", "", "", "PQRSX5678K"),
	)
	r := newTestResolver(t, mem, DefaultSettings())

	res, err := r.Resolve(context.Background(), Request{Identifier: "ABCDE1234F"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(res.Rows))
	assert.Empty(t, res.CanonicalNames)
	assert.Zero(t, res.Candidates)
}

func TestSearchBySeedNameWithoutPhonetic(t *testing.T) {
	mem := ledger.NewMemorySource("ledger",
		[]string{"id", ledger.ColumnName, ledger.ColumnIdentifier},
		[]string{"1", "john doe", "AAAAA1111A"},
		[]string{"2", "j doe", "AAAAA1111A"},
		[]string{"3", "john doe", ""},
		[]string{"4", "jane roe", "BBBBB2222B"},
	)
	r := newTestResolver(t, mem, DefaultSettings())

	rows, err := r.SearchBySeedName(context.Background(), "  John   DOE ")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(rows))
}

func TestSearchBySeedNameCrossScript(t *testing.T) {
	r := newTestResolver(t, crossScriptLedger(), DefaultSettings())

	res, err := r.Resolve(context.Background(), Request{SeedName: "Chirayu Sanjay Giri"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(res.Rows))
	assert.Equal(t, []string{"chirayu sanjay giri"}, res.CanonicalNames)
}

func TestSearchBySeedNameEmpty(t *testing.T) {
	src := &recordingSource{Source: crossScriptLedger()}
	r := newTestResolver(t, src, DefaultSettings())

	for _, seed := range []string{"", "   ", "...", "-,;"} {
		rows, err := r.SearchBySeedName(context.Background(), seed)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	}
	assert.Zero(t, src.calls())
}

func TestResolveNoSeed(t *testing.T) {
	src := &recordingSource{Source: crossScriptLedger()}
	r := newTestResolver(t, src, DefaultSettings())

	_, err := r.Resolve(context.Background(), Request{Limit: 10})
	assert.ErrorIs(t, err, ErrNoSeed)
	assert.Zero(t, src.calls())
}

func TestResolveIdentifierWins(t *testing.T) {
	r := newTestResolver(t, crossScriptLedger(), DefaultSettings())

	res, err := r.Resolve(context.Background(), Request{Identifier: "LMNOP1111Q", SeedName: "chirayu sanjay giri"})
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids(res.Rows))
}

func TestResolveLimit(t *testing.T) {
	r := newTestResolver(t, crossScriptLedger(), DefaultSettings())

	res, err := r.Resolve(context.Background(), Request{Identifier: "ABCDE1234F", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(res.Rows))
}

func TestResolveResultLimit(t *testing.T) {
	settings := DefaultSettings()
	settings.ResultLimit = 2
	r := newTestResolver(t, crossScriptLedger(), settings)

	rows, err := r.SearchByIdentifier(context.Background(), "ABCDE1234F")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestResolveSourceError(t *testing.T) {
	mem := crossScriptLedger()
	src := &recordingSource{Source: mem}
	r := newTestResolver(t, src, DefaultSettings())
	src.err = errBroken

	_, err := r.Resolve(context.Background(), Request{Identifier: "ABCDE1234F"})
	assert.ErrorIs(t, err, errBroken)

	_, err = r.Resolve(context.Background(), Request{SeedName: "ram"})
	assert.ErrorIs(t, err, errBroken)
}

func TestNewResolverRejectsBadSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.NameStrict = 10

	_, err := NewResolver(context.Background(), crossScriptLedger(), settings, nil)
	assert.Error(t, err)
}

func multiHopLedger() *ledger.MemorySource {
	return ledger.NewMemorySource("ledger", fullColumns,
		party("1", "ram patil", "", "", "AAAAA1111A"),
		party("2", "ram patil", "", "", "BBBBB2222B"),
		party("3", "ramchandra patil", "", "", "BBBBB2222B"),
		party("4", "ramchandra patil", "", "", "CCCCC3333C"),
		party("5", "ramchandra patil", "", "", "CCCCC3333C"),
		party("6", "sunil pawar", "", "", "DDDDD4444D"),
	)
}

func TestMultiHopClosure(t *testing.T) {
	single := newTestResolver(t, multiHopLedger(), DefaultSettings())
	res, err := single.Resolve(context.Background(), Request{Identifier: "AAAAA1111A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(res.Rows))
	assert.Equal(t, 1, res.Hops)

	settings := DefaultSettings()
	settings.MaxHops = 3
	multi := newTestResolver(t, multiHopLedger(), settings)
	res, err = multi.Resolve(context.Background(), Request{Identifier: "AAAAA1111A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(res.Rows))
	assert.LessOrEqual(t, res.Hops, 3)
	assert.GreaterOrEqual(t, res.Hops, 2)
}

func TestCanonicalNames(t *testing.T) {
	row := func(name string) ledger.Row {
		return ledger.Row{Columns: []string{ledger.ColumnName}, Values: []any{name}}
	}

	tests := []struct {
		name string
		rows []ledger.Row
		want []string
	}{
		{name: "none", rows: nil, want: nil},
		{name: "blank names", rows: []ledger.Row{row(""), row("")}, want: nil},
		{
			name: "frequency then first seen",
			rows: []ledger.Row{row("b"), row("a"), row("c"), row("a"), row("d"), row("c"), row("")},
			want: []string{"a", "c", "b"},
		},
		{name: "fewer than three", rows: []ledger.Row{row("x"), row("y")}, want: []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalNames(tt.rows))
		})
	}
}
