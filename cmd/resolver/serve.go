package main

import (
	"github.com/spf13/cobra"

	"github.com/ledger-resolve/internal/metrics"
	"github.com/ledger-resolve/internal/web"
)

// createServeCmd creates the serve subcommand
func createServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, closeFn, err := a.newResolver(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			serverCfg := a.cfg.Server
			if port != 0 {
				serverCfg.Port = port
			}

			server := web.NewServer(serverCfg, r, metrics.NewRecorder(), a.logger)
			return server.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (default $WEB_PORT)")
	return cmd
}
