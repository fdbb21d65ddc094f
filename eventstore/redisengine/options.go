package redisengine

import "github.com/AntonStoeckl/entity-eventstore-go/eventstore"

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithKeyPrefix sets the prefix of every stream key. The default is DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(es *EventStore) error {
		if prefix == "" {
			return eventstore.ErrEmptyKeyPrefix
		}

		es.keyPrefix = prefix

		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.obs.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.obs.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.obs.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.obs.Tracing = collector
		return nil
	}
}
