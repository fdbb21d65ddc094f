package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

// Span status descriptions for the non-success outcomes of an engine operation.
const (
	StatusDescriptionError    = "eventstore operation failed"
	StatusDescriptionConflict = "concurrency conflict"
	StatusDescriptionCanceled = "eventstore operation canceled"
)

// TracingCollector implements eventstore.TracingCollector with an OpenTelemetry trace.Tracer.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector that starts its spans on tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span as a child of whatever span ctx carries.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan sets the final attributes and status, then ends the span.
// Span contexts not created by a TracingCollector are ignored.
func (t *TracingCollector) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(attributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

var _ eventstore.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements eventstore.SpanContext for an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// Span returns the wrapped span.
func (s *OTelSpanContext) Span() trace.Span {
	return s.span
}

// SetStatus maps the engine status strings onto span status codes.
// Unknown statuses are kept as a "status" attribute and leave the code unset.
func (s *OTelSpanContext) SetStatus(status string) {
	switch status {
	case "success", "ok":
		s.span.SetStatus(codes.Ok, "")
	case "error":
		s.span.SetStatus(codes.Error, StatusDescriptionError)
	case "conflict":
		s.span.SetStatus(codes.Error, StatusDescriptionConflict)
	case "canceled", "cancelled":
		s.span.SetStatus(codes.Error, StatusDescriptionCanceled)
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var _ eventstore.SpanContext = (*OTelSpanContext)(nil)
