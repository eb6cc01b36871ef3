package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/logging"
	"github.com/ledger-resolve/internal/normalize"
)

// ErrNoSeed is returned when a request carries neither an identifier nor a name
var ErrNoSeed = errors.New("either identifier or seed name is required")

const maxCanonicalNames = 3

// Request is one resolution. Identifier wins when both seeds are set.
type Request struct {
	Identifier string
	SeedName   string
	// Limit truncates the returned rows when positive
	Limit int
}

// Resolution is the outcome of a request
type Resolution struct {
	Rows           []ledger.Row
	CanonicalNames []string
	Candidates     int
	Verified       int
	Hops           int
}

// Resolver resolves seeds against one ledger source. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	source   ledger.Source
	schema   ledger.Schema
	caps     ledger.Capabilities
	settings Settings
	logger   *zap.Logger
}

// NewResolver probes the source schema once and fixes the settings
func NewResolver(ctx context.Context, src ledger.Source, settings Settings, logger *zap.Logger) (*Resolver, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	schema, err := src.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger schema: %w", err)
	}
	caps := ledger.CapabilitiesOf(schema)

	logger.Debug("ledger capabilities",
		zap.String("table", schema.Table),
		zap.Bool("name", caps.HasName),
		zap.Bool("phonetic", caps.HasPhonetic),
		zap.Bool("address", caps.HasAddress),
		zap.Bool("mobile", caps.HasMobile),
		zap.Bool("identifier", caps.HasIdentifier))

	return &Resolver{
		source:   src,
		schema:   schema,
		caps:     caps,
		settings: settings,
		logger:   logger,
	}, nil
}

// Schema returns the schema discovered at construction
func (r *Resolver) Schema() ledger.Schema { return r.schema }

// Capabilities returns the optional columns the source provides
func (r *Resolver) Capabilities() ledger.Capabilities { return r.caps }

// Settings returns the thresholds and limits in force
func (r *Resolver) Settings() Settings { return r.settings }

// SearchByIdentifier returns every row linked to the party holding the identifier
func (r *Resolver) SearchByIdentifier(ctx context.Context, identifier string) ([]ledger.Row, error) {
	res, err := r.resolveIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// SearchBySeedName returns every row linked to the party with the given name
func (r *Resolver) SearchBySeedName(ctx context.Context, name string) ([]ledger.Row, error) {
	res, err := r.resolveName(ctx, name)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// Resolve runs one request through the identifier or seed-name path
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Resolution, error) {
	var (
		res *Resolution
		err error
	)
	switch {
	case req.Identifier != "":
		res, err = r.resolveIdentifier(ctx, req.Identifier)
	case req.SeedName != "":
		res, err = r.resolveName(ctx, req.SeedName)
	default:
		return nil, ErrNoSeed
	}
	if err != nil {
		return nil, err
	}

	if req.Limit > 0 && len(res.Rows) > req.Limit {
		res.Rows = res.Rows[:req.Limit]
	}
	return res, nil
}

func (r *Resolver) resolveIdentifier(ctx context.Context, identifier string) (*Resolution, error) {
	defer logging.Timed(r.logger, "resolve identifier")()

	res := &Resolution{Rows: []ledger.Row{}}
	code := normalize.CanonicalizeIdentifier(identifier)
	if code == "" || !r.caps.HasIdentifier {
		return res, nil
	}

	base, err := r.source.Select(ctx, ledger.Query{
		AnyOf:   []ledger.Filter{{Column: ledger.ColumnIdentifier, Values: []string{code}}},
		Columns: r.caps.Project(ledger.CoreColumns...),
		Limit:   r.settings.ResultLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed rows: %w", err)
	}
	r.logger.Debug("seed rows fetched", zap.String("identifier", code), zap.Int("rows", len(base)))
	if len(base) == 0 {
		return res, nil
	}

	res.CanonicalNames = CanonicalNames(base)

	codes, names := newOrderedSet(), newOrderedSet()
	for _, row := range base {
		codes.add(row.Identifier())
		names.add(row.NameNorm())
	}

	if err := r.closure(ctx, res.CanonicalNames, codes, names, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Resolver) resolveName(ctx context.Context, name string) (*Resolution, error) {
	defer logging.Timed(r.logger, "resolve seed name")()

	res := &Resolution{Rows: []ledger.Row{}}
	seed := normalize.NormalizeName(name)
	if seed == "" {
		return res, nil
	}
	res.CanonicalNames = []string{seed}

	codes, names := newOrderedSet(), newOrderedSet()
	if err := r.closure(ctx, []string{seed}, codes, names, res); err != nil {
		return nil, err
	}
	return res, nil
}

// closure blocks and verifies anchors, then expands the code and name sets
// into rows. With MaxHops above one, names first seen in the expanded rows
// become the next anchors until nothing new turns up.
func (r *Resolver) closure(ctx context.Context, anchors []string, codes, names *orderedSet, res *Resolution) error {
	seeds := anchors
	for hop := 1; ; hop++ {
		candidates, err := Block(ctx, r.source, r.caps, anchors, r.settings.CandidateLimit)
		if err != nil {
			return err
		}

		verified := 0
		for _, row := range candidates {
			if !Verify(anchors, row, r.settings.Tiers) {
				continue
			}
			verified++
			codes.add(row.Identifier())
			names.add(row.NameNorm())
		}
		if hop == 1 {
			// the seed itself belongs to the name set
			for _, s := range seeds {
				names.add(s)
			}
		}

		res.Candidates += len(candidates)
		res.Verified += verified
		res.Hops = hop
		r.logger.Debug("candidates verified",
			zap.Int("hop", hop),
			zap.Int("candidates", len(candidates)),
			zap.Int("verified", verified))

		rows, err := Expand(ctx, r.source, r.caps, codes.list(), names.list(), r.settings.ResultLimit)
		if err != nil {
			return err
		}
		res.Rows = rows
		r.logger.Debug("closure expanded",
			zap.Int("hop", hop),
			zap.Int("codes", codes.len()),
			zap.Int("names", names.len()),
			zap.Int("rows", len(rows)))

		if hop >= r.settings.MaxHops {
			return nil
		}

		var fresh []string
		grown := false
		for _, row := range rows {
			if name := row.NameNorm(); names.add(name) {
				fresh = append(fresh, name)
			}
			if codes.add(row.Identifier()) {
				grown = true
			}
		}
		if len(fresh) == 0 && !grown {
			return nil
		}
		anchors = fresh
	}
}

// CanonicalNames returns up to three of the most frequent non-empty names in
// rows. Ties keep the order in which names were first seen.
func CanonicalNames(rows []ledger.Row) []string {
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		name := row.NameNorm()
		if name == "" {
			continue
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	var top []string
	for len(top) < maxCanonicalNames && len(order) > 0 {
		best := 0
		for i, name := range order {
			if counts[name] > counts[order[best]] {
				best = i
			}
		}
		top = append(top, order[best])
		order = append(order[:best], order[best+1:]...)
	}
	return top
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

// add inserts a non-empty value and reports whether it was new
func (s *orderedSet) add(v string) bool {
	if v == "" || s.seen[v] {
		return false
	}
	s.seen[v] = true
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet) list() []string { return s.items }

func (s *orderedSet) len() int { return len(s.items) }
