package main

import (
	"context"

	"go-chi-keypad/internal/calculator"
	"go-chi-keypad/internal/config"
	"go-chi-keypad/internal/observability"
)

// initTelemetry starts the OTLP providers enabled in cfg and then creates the
// calculator's metric instruments on top of them.
func initTelemetry(ctx context.Context, cfg *config.Config) (observability.Shutdown, error) {
	shutdown, err := observability.Init(ctx, observability.Telemetry{
		ServiceName: cfg.ServiceName,
		Traces:      cfg.TracesEnabled,
		Metrics:     cfg.MetricsEnabled,
		Logs:        cfg.LogsEnabled,
	})
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
