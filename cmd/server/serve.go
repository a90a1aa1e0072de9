package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"forum/backend/internal/config"
	"forum/backend/internal/errutil"
	"forum/backend/internal/httpserver"
	"forum/backend/internal/logging"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. With the postgres storage driver pending
migrations are applied first.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger := logging.New(logging.Config{
		Service: "forum-api",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		errutil.LogError(ctx, logger, "storage unavailable", err)
		return err
	}
	defer repos.close()

	opts := []httpserver.Option{httpserver.WithMetrics(httpserver.NewMetrics())}
	if repos.ready != nil {
		opts = append(opts, httpserver.WithReadiness(repos.ready))
	}
	server := httpserver.NewServer(cfg, newServices(cfg, repos), logger, opts...)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", server.Addr(), "storage", cfg.StorageDriver)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			errutil.LogError(ctx, logger, "http server failed", err)
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		errutil.LogError(shutdownCtx, logger, "graceful shutdown failed", err)
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	logger.Info("graceful shutdown completed")
	return nil
}
