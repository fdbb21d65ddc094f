package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/entity-eventstore-go/shell/config"
)

const instrumentationName = "github.com/AntonStoeckl/entity-eventstore-go/cmd/planetexpress"

type telemetry struct {
	observability    config.Observability
	contextualLogger *oteladapters.SlogBridgeLogger
	shutdown         func(ctx context.Context) error
}

// newTelemetry builds the collectors handed to the engine and the repository.
// Metrics are kept in a manual reader and summarized at debug level on shutdown.
// Spans are exported only with TRACE_STDOUT.
func newTelemetry(cfg config.Config, logger *slog.Logger, traceOut io.Writer) (*telemetry, error) {
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	tracerOptions := make([]sdktrace.TracerProviderOption, 0, 1)
	if cfg.TraceStdout {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(traceOut), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}

		tracerOptions = append(tracerOptions, sdktrace.WithSyncer(exporter))
	}

	tracerProvider := sdktrace.NewTracerProvider(tracerOptions...)

	t := &telemetry{
		observability: config.Observability{
			Logger:  logger,
			Metrics: oteladapters.NewMetricsCollector(meterProvider.Meter(instrumentationName)),
			Tracing: oteladapters.NewTracingCollector(tracerProvider.Tracer(instrumentationName)),
		},
		contextualLogger: oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler()),
	}

	t.shutdown = func(ctx context.Context) error {
		logMetrics(ctx, logger, reader)

		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}

	return t, nil
}

func logMetrics(ctx context.Context, logger *slog.Logger, reader *sdkmetric.ManualReader) {
	var collected metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &collected); err != nil {
		logger.Warn("collecting metrics failed", "error", err)
		return
	}

	for _, scope := range collected.ScopeMetrics {
		for _, m := range scope.Metrics {
			logger.Debug("metric recorded", "name", m.Name)
		}
	}
}
