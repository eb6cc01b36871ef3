package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledger-resolve/internal/db"
	"github.com/ledger-resolve/internal/etl"
	"github.com/ledger-resolve/internal/ledger"
)

// createPrepareCmd creates the prepare subcommand, which derives the
// matching columns from a raw export
func createPrepareCmd(a *app) *cobra.Command {
	var (
		in      string
		out     string
		load    bool
		replace bool
		mapping etl.Mapping
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Derive name_norm, name_phonetic and pan_upper from a raw CSV export",
		Example: `  resolver prepare --in deeds.csv --blob-col buyer --out ledger.csv
  resolver prepare --in parties.csv --name-col name --pan-col pan --load --replace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" && !load {
				return errors.New("nothing to do: pass --out and/or --load")
			}

			pipeline, err := etl.NewPipeline(mapping, a.logger)
			if err != nil {
				return err
			}

			file, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", in, err)
			}
			defer file.Close()

			ctx := cmd.Context()
			var (
				rows   []ledger.Row
				loader *etl.Loader
			)
			if load {
				l, closeFn, err := a.openLoader(ctx)
				if err != nil {
					return err
				}
				defer closeFn()
				loader = l
			}

			start := time.Now()
			begun := false
			stats, err := pipeline.Transform(file, func(row ledger.Row) error {
				if out != "" {
					rows = append(rows, row)
				}
				if loader == nil {
					return nil
				}
				if !begun {
					if err := loader.Begin(ctx, row.Columns, replace); err != nil {
						return err
					}
					begun = true
				}
				return loader.Add(ctx, row)
			})
			if err != nil {
				if loader != nil {
					loader.Rollback()
				}
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Records: %d, rows: %d, skipped: %d (took %v)\n",
				stats.Records, stats.Rows, stats.Skipped, time.Since(start).Round(time.Millisecond))

			if out != "" {
				if err := writeRows(out, rows); err != nil {
					return err
				}
				fmt.Fprintf(w, "Wrote %d rows to %s\n", len(rows), out)
			}
			if begun {
				loaded, err := loader.Commit(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Loaded %d rows into %s\n", loaded, a.cfg.Database.Table)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "raw CSV export with a header row")
	cmd.Flags().StringVar(&mapping.Name, "name-col", "", "column holding one party name")
	cmd.Flags().StringVar(&mapping.Blob, "blob-col", "", "free-text column holding one or more parties")
	cmd.Flags().StringVar(&mapping.Identifier, "pan-col", "", "column holding the PAN")
	cmd.Flags().StringVar(&out, "out", "", "write the prepared ledger to this CSV file")
	cmd.Flags().BoolVar(&load, "load", false, "load the prepared ledger into the --db Postgres table")
	cmd.Flags().BoolVar(&replace, "replace", false, "drop the table before loading")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagsOneRequired("name-col", "blob-col")

	return cmd
}

// openLoader connects to the Postgres ledger named by --db
func (a *app) openLoader(ctx context.Context) (*etl.Loader, func(), error) {
	if !isDSN(a.db) {
		return nil, nil, errors.New("--load needs a Postgres DSN in --db or DB_URL")
	}
	conn, err := db.NewConnection(ctx, a.db, a.cfg.Database.MaxConnections)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ledger.ErrSourceUnavailable, err)
	}
	return etl.NewLoader(conn.DB, a.cfg.Database.Table, a.logger), func() { conn.Close() }, nil
}
