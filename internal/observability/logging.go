package observability

import (
	"context"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging tees Logger into an OTLP/HTTP log exporter. Call it after
// InitLogger.
func InitLogging(ctx context.Context, serviceName string) (Shutdown, error) {
	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exporter),
		),
	)

	otelCore := otelzap.NewCore(serviceName, otelzap.WithLoggerProvider(provider))

	Logger = zap.New(zapcore.NewTee(Logger.Core(), otelCore))

	return provider.Shutdown, nil
}

// Telemetry selects which OTLP signals Init starts.
type Telemetry struct {
	ServiceName string
	Traces      bool
	Metrics     bool
	Logs        bool
}

// Init starts the enabled providers and returns one Shutdown for all of them.
// Providers that were started are shut down again if a later one fails.
func Init(ctx context.Context, t Telemetry) (Shutdown, error) {
	var shutdowns []Shutdown

	shutdownAll := func(ctx context.Context) error {
		var first error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	steps := []struct {
		enabled bool
		init    func(context.Context, string) (Shutdown, error)
	}{
		{t.Traces, InitTracing},
		{t.Metrics, InitMetrics},
		{t.Logs, InitLogging},
	}

	for _, step := range steps {
		if !step.enabled {
			continue
		}
		sd, err := step.init(ctx, t.ServiceName)
		if err != nil {
			_ = shutdownAll(ctx)
			return noopShutdown, err
		}
		shutdowns = append(shutdowns, sd)
	}

	return shutdownAll, nil
}
