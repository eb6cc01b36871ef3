package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/phonetics"
)

// recordingSource wraps a source and keeps every query it receives
type recordingSource struct {
	ledger.Source

	mu      sync.Mutex
	queries []ledger.Query
	err     error
}

func (s *recordingSource) Select(ctx context.Context, q ledger.Query) ([]ledger.Row, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.Source.Select(ctx, q)
}

func (s *recordingSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

var errBroken = errors.New("connection refused")

var fullColumns = []string{
	"id",
	ledger.ColumnName,
	ledger.ColumnPhonetic,
	ledger.ColumnAddress,
	ledger.ColumnMobile,
	ledger.ColumnIdentifier,
}

// party builds a full-schema record with the phonetic key derived from the name
func party(id, name, address, mobile, pan string) []string {
	return []string{id, name, phonetics.Key(name), address, mobile, pan}
}

func ids(rows []ledger.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Get("id"))
	}
	return out
}

func capsOf(src ledger.Source) ledger.Capabilities {
	schema, _ := src.Schema(context.Background())
	return ledger.CapabilitiesOf(schema)
}
