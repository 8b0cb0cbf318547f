package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gompdf/docexport/internal/server"
)

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the export HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.NewServer(&server.Options{
				Address:        c.conf.Server.Address,
				DisableReqLogs: !c.conf.Server.RequestLogs,
				Debug:          c.conf.Server.Debug,
				Exporter:       c.exporter,
				Logger:         c.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errs := make(chan error, 1)
			go func() { errs <- srv.Start() }()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), c.conf.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				return err
			}
			return <-errs
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from server.address, :8080)")

	return cmd
}
