package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/cryptopulse/internal/api"
	"github.com/hoanghai1803/cryptopulse/internal/output"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local HTTP API",
	Long:  "Starts an HTTP API on localhost for triggering runs (POST /api/runs), previewing headlines and reading run reports.",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (defaults to server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	p, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Runner:   p,
		Resolver: newResolver(cfg, logger),
		Reports:  output.NewWriter(cfg.Output.Dir, logger),
		Limit:    cfg.News.Limit,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", "http://"+srv.Addr, "dry_run", cfg.Bluesky.DryRun)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
