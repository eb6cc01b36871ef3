package etl

import (
	"context"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ledger-resolve/internal/ledger"
)

const defaultBatchSize = 500

// Loader writes prepared ledger rows into a Postgres table
type Loader struct {
	db        *sqlx.DB
	table     string
	batchSize int
	logger    *zap.Logger

	columns []string
	batch   [][]any
	tx      *sqlx.Tx
	loaded  int
}

// NewLoader creates a loader for table
func NewLoader(db *sqlx.DB, table string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{db: db, table: table, batchSize: defaultBatchSize, logger: logger}
}

// Begin opens the load transaction, optionally replacing the table, and
// creates the table with text columns when it does not exist yet.
func (l *Loader) Begin(ctx context.Context, columns []string, replace bool) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin load: %w", err)
	}
	l.tx = tx
	l.columns = columns

	if replace {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(l.table)); err != nil {
			return l.fail(fmt.Errorf("failed to drop %s: %w", l.table, err))
		}
	}

	ct := sqlbuilder.PostgreSQL.NewCreateTableBuilder()
	ct.CreateTable(pq.QuoteIdentifier(l.table)).IfNotExists()
	for _, col := range columns {
		ct.Define(pq.QuoteIdentifier(col), "TEXT")
	}
	if _, err := tx.ExecContext(ctx, ct.String()); err != nil {
		return l.fail(fmt.Errorf("failed to create %s: %w", l.table, err))
	}

	schema := ledger.Schema{Table: l.table, Columns: columns}
	for _, col := range []string{ledger.ColumnIdentifier, ledger.ColumnName, ledger.ColumnPhonetic} {
		if !schema.Has(col) {
			continue
		}
		index := pq.QuoteIdentifier(fmt.Sprintf("%s_%s_idx", l.table, col))
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", index, pq.QuoteIdentifier(l.table), pq.QuoteIdentifier(col))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return l.fail(fmt.Errorf("failed to index %s: %w", col, err))
		}
	}
	return nil
}

// Add queues one row, flushing a full batch
func (l *Loader) Add(ctx context.Context, row ledger.Row) error {
	l.batch = append(l.batch, row.Values)
	if len(l.batch) >= l.batchSize {
		return l.flush(ctx)
	}
	return nil
}

// Commit flushes the remaining rows and commits the load
func (l *Loader) Commit(ctx context.Context) (int, error) {
	if err := l.flush(ctx); err != nil {
		return l.loaded, err
	}
	if err := l.tx.Commit(); err != nil {
		return l.loaded, fmt.Errorf("failed to commit load: %w", err)
	}
	l.logger.Info("ledger loaded", zap.String("table", l.table), zap.Int("rows", l.loaded))
	return l.loaded, nil
}

// Rollback abandons the load
func (l *Loader) Rollback() {
	if l.tx != nil {
		l.tx.Rollback()
	}
}

func (l *Loader) flush(ctx context.Context) error {
	if len(l.batch) == 0 {
		return nil
	}

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(pq.QuoteIdentifier(l.table))
	cols := make([]string, len(l.columns))
	for i, c := range l.columns {
		cols[i] = pq.QuoteIdentifier(c)
	}
	ib.Cols(cols...)
	for _, values := range l.batch {
		ib.Values(nullIfEmpty(values)...)
	}

	query, args := ib.Build()
	if _, err := l.tx.ExecContext(ctx, query, args...); err != nil {
		return l.fail(fmt.Errorf("failed to insert batch: %w", err))
	}

	l.loaded += len(l.batch)
	l.batch = l.batch[:0]
	l.logger.Debug("batch inserted", zap.Int("rows", l.loaded))
	return nil
}

func (l *Loader) fail(err error) error {
	l.Rollback()
	return err
}

func nullIfEmpty(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			out[i] = nil
			continue
		}
		out[i] = v
	}
	return out
}
