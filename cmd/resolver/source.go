package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ledger-resolve/internal/db"
	"github.com/ledger-resolve/internal/engine"
	"github.com/ledger-resolve/internal/ledger"
)

// openSource opens the ledger named by --db: a CSV file path, or a Postgres DSN.
// The returned close func is never nil.
func (a *app) openSource(ctx context.Context) (ledger.Source, func(), error) {
	if a.db == "" {
		return nil, nil, errors.New("no ledger given: pass --db or set DB_URL")
	}

	if !isDSN(a.db) {
		src, err := ledger.LoadCSV(a.db)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %w (a Postgres ledger needs a postgres:// URL or key=value DSN)", ledger.ErrSourceUnavailable, err)
		}
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("loaded ledger file")
		return src, func() {}, nil
	}

	conn, err := db.NewConnection(ctx, a.db, a.cfg.Database.MaxConnections)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ledger.ErrSourceUnavailable, err)
	}
	return db.NewSource(conn, a.cfg.Database.Table), func() { conn.Close() }, nil
}

// newResolver opens the ledger and builds a resolver over it
func (a *app) newResolver(ctx context.Context) (*engine.Resolver, func(), error) {
	src, closeFn, err := a.openSource(ctx)
	if err != nil {
		return nil, nil, err
	}

	r, err := engine.NewResolver(ctx, src, a.cfg.Matching, a.logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return r, closeFn, nil
}

// isDSN reports whether --db names a Postgres server: a postgres:// URL or a
// key=value connection string. Anything else is a CSV path.
func isDSN(value string) bool {
	return strings.HasPrefix(value, "postgres://") ||
		strings.HasPrefix(value, "postgresql://") ||
		strings.Contains(value, "=")
}
