package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"go-chi-keypad/internal/config"
	"go-chi-keypad/internal/observability"
	"go-chi-keypad/internal/server"
	"go-chi-keypad/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel, cfg.LogDevelopment); err != nil {
		return err
	}
	defer observability.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing, metrics, log export
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	// Sessions
	store := session.NewStore(session.Options{
		IdleTTL:     cfg.SessionIdleTTL,
		MaxSessions: cfg.SessionMax,
	})
	go store.Run(ctx, cfg.SessionSweepInterval, func(removed int) {
		if removed > 0 {
			observability.Logger.Info("idle keypad sessions removed", zap.Int("removed", removed))
		}
	})

	registry, err := observability.NewRegistry(store.Collector())
	if err != nil {
		return err
	}

	// Router
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.NewRouter(store, registry),
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.HTTPAddr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return waitForShutdown(srv, cfg)
}

func waitForShutdown(srv *http.Server, cfg *config.Config) error {
	observability.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(ctx)
}
