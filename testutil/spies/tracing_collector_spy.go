package spies

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

// SpanContextSpy records what an engine does with an open span.
type SpanContextSpy struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

func (s *SpanContextSpy) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

func (s *SpanContextSpy) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attributes == nil {
		s.attributes = make(map[string]string)
	}

	s.attributes[key] = value
}

// Status returns the last status set on the span.
func (s *SpanContextSpy) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// SpanRecord represents one started span and, once finished, its final status and attributes.
type SpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Finished        bool
	Status          string
	EndAttributes   map[string]string
	SpanContext     *SpanContextSpy
}

// TracingCollectorSpy captures tracing calls for testing. It implements eventstore.TracingCollector.
type TracingCollectorSpy struct {
	spans []*SpanRecord
	mu    sync.Mutex
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (c *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	c.mu.Lock()
	defer c.mu.Unlock()

	span := &SpanContextSpy{}
	c.spans = append(c.spans, &SpanRecord{
		Name:            name,
		StartAttributes: maps.Clone(attrs),
		SpanContext:     span,
	})

	return ctx, span
}

func (c *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, record := range c.spans {
		if record.SpanContext == spanCtx {
			record.Finished = true
			record.Status = status
			record.EndAttributes = maps.Clone(attrs)

			return
		}
	}
}

// Spans returns copies of all recorded spans in start order.
func (c *TracingCollectorSpy) Spans() []SpanRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	spans := make([]SpanRecord, 0, len(c.spans))
	for _, record := range c.spans {
		spans = append(spans, *record)
	}

	return spans
}

// FindSpan returns the first recorded span with the given name.
func (c *TracingCollectorSpy) FindSpan(name string) (SpanRecord, bool) {
	for _, record := range c.Spans() {
		if record.Name == name {
			return record, true
		}
	}

	return SpanRecord{}, false
}

var _ eventstore.TracingCollector = (*TracingCollectorSpy)(nil)
