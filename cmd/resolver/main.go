package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledger-resolve/internal/config"
	"github.com/ledger-resolve/internal/logging"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		table    string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:           "resolver",
		Short:         "Ledger party resolution",
		Long:          `Resolves a PAN or a party name to every ledger row belonging to the same party, across spelling variants and Devanagari/Latin scripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if table != "" {
				cfg.Database.Table = table
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if a.db == "" {
				a.db = cfg.Database.URL
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Pretty)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.db, "db", "", "ledger CSV file or Postgres DSN (default $DB_URL)")
	rootCmd.PersistentFlags().StringVar(&table, "table", "", "ledger table name (default $DB_TABLE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")

	rootCmd.AddCommand(createSearchCmd(a))
	rootCmd.AddCommand(createServeCmd(a))
	rootCmd.AddCommand(createPingCmd(a))
	rootCmd.AddCommand(createSchemaCmd(a))
	rootCmd.AddCommand(createKeysCmd())
	rootCmd.AddCommand(createPrepareCmd(a))

	return rootCmd
}
