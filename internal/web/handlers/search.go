package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ledger-resolve/internal/engine"
	"github.com/ledger-resolve/internal/metrics"
)

// DefaultLimit caps the rows returned when the caller gives no limit
const DefaultLimit = 1000

// Resolver resolves one request
type Resolver interface {
	Resolve(ctx context.Context, req engine.Request) (*engine.Resolution, error)
}

// SearchHandler resolves a PAN or seed name into ledger rows
type SearchHandler struct {
	Resolver Resolver
	Metrics  *metrics.Recorder
	Logger   *zap.Logger
}

// SearchResponse is the JSON body of a successful search
type SearchResponse struct {
	Count int              `json:"count"`
	Data  []map[string]any `json:"data"`
}

// Search handles GET /search?pan=&seed_name=&limit=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resolve(w, r)
	if !ok {
		return
	}

	data := make([]map[string]any, 0, len(res.Rows))
	for _, row := range res.Rows {
		data = append(data, row.Map())
	}
	writeJSON(w, http.StatusOK, SearchResponse{Count: len(data), Data: data})
}

// resolve parses the query, runs the resolver and writes any error response
func (h *SearchHandler) resolve(w http.ResponseWriter, r *http.Request) (*engine.Resolution, bool) {
	req, err := parseSearchRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	seed := metrics.SeedName
	if req.Identifier != "" {
		seed = metrics.SeedIdentifier
	}

	start := time.Now()
	res, err := h.Resolver.Resolve(r.Context(), req)
	obs := metrics.Observation{Seed: seed, Duration: time.Since(start)}

	switch {
	case errors.Is(err, engine.ErrNoSeed):
		http.Error(w, "Provide either pan or seed_name", http.StatusBadRequest)
		return nil, false
	case err != nil:
		obs.Outcome = metrics.OutcomeError
		h.observe(obs)
		h.logger().Error("search failed", zap.String("seed", seed), zap.Error(err))
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return nil, false
	}

	obs.Outcome = metrics.OutcomeMatched
	if len(res.Rows) == 0 {
		obs.Outcome = metrics.OutcomeEmpty
	}
	obs.Candidates, obs.Verified, obs.Rows = res.Candidates, res.Verified, len(res.Rows)
	h.observe(obs)

	return res, true
}

func (h *SearchHandler) observe(o metrics.Observation) {
	if h.Metrics != nil {
		h.Metrics.Observe(o)
	}
}

func (h *SearchHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func parseSearchRequest(r *http.Request) (engine.Request, error) {
	query := r.URL.Query()

	identifier := query.Get("pan")
	if identifier == "" {
		identifier = query.Get("identifier")
	}
	req := engine.Request{
		Identifier: identifier,
		SeedName:   query.Get("seed_name"),
		Limit:      DefaultLimit,
	}
	if req.Identifier == "" && req.SeedName == "" {
		return req, errors.New("provide either pan or seed_name")
	}

	if s := query.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return req, fmt.Errorf("invalid limit %q", s)
		}
		req.Limit = limit
	}
	return req, nil
}
