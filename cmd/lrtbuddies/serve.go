package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ronaldwopara/lrt-buddies-app/internal/logging"
)

func newServeCmd() *cobra.Command {
	flags := &appFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the companion API server",
		Long:  "Serves the station catalog, line shapes, and incident map data over the read-only companion API, plus the operator web surface for exported reports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&flags.port, "port", "p", 4000, "listen port")
	cmd.Flags().IntVar(&flags.rateLimit, "rate-limit", 100, "per-client requests per second")
	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "reports", "directory exported reports are served from")
	return cmd
}

func runServe(flags *appFlags) error {
	coreApp, err := BuildApplication(flags.toConfig())
	if err != nil {
		return err
	}
	defer func() { _ = coreApp.CatalogDB.Close() }()
	defer coreApp.Metrics.Shutdown()

	srv, api := CreateServer(coreApp, coreApp.Config)
	defer api.Shutdown()

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		logging.LogOperation(coreApp.Logger, "server_shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	logging.LogOperation(coreApp.Logger, "server_start",
		"addr", srv.Addr,
		"env", coreApp.Config.Env.String())

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return <-shutdownErr
}
