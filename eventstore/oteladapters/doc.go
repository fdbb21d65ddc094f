// Package oteladapters implements the eventstore observability interfaces on top of OpenTelemetry.
//
//	engine, err := memoryengine.NewEventStore(
//		memoryengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("planetexpress"))),
//		memoryengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("planetexpress"))),
//		memoryengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("planetexpress")),
//	)
//
// The same options exist on every stream engine.
package oteladapters
