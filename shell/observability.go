package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

const (
	// RepositoryDurationMetric tracks repository operation duration in seconds.
	// Labels: operation, status.
	RepositoryDurationMetric = "repository_operation_duration_seconds"

	// RepositoryCallsMetric counts repository operations. Labels: operation, status.
	RepositoryCallsMetric = "repository_operation_calls_total"

	// RetriesMetric counts retries after a concurrency conflict.
	// Labels: operation, attempt_number, error_type.
	RetriesMetric = "repository_retries_total"

	// RetryDelayMetric tracks the backoff before each retry. Labels: operation, attempt_number.
	RetryDelayMetric = "repository_retry_delay_seconds"

	// MaxRetriesReachedMetric counts retry exhaustion. Labels: operation, final_error_type.
	MaxRetriesReachedMetric = "repository_max_retries_reached_total"

	OperationLoad   = "load"
	OperationSave   = "save"
	OperationUpdate = "update"

	StatusSuccess             = "success"
	StatusError               = "error"
	StatusNotFound            = "not_found"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"

	LogMsgRepositoryCompleted = "repository operation completed"
	LogMsgRepositoryFailed    = "repository operation failed"
	logMsgEntityAppended      = "entity events appended"
	logMsgRouted              = "routed event"
	logMsgUpdateRetried       = "repository update needed retries"

	LogAttrOperation       = "operation"
	LogAttrAggregateID     = "aggregate_id"
	LogAttrEntityID        = "entity_id"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrEventCount      = "event_count"
	LogAttrEventType       = "event_type"
	LogAttrExpectedVersion = "expected_version"
	LogAttrAttemptNumber   = "attempt_number"
	LogAttrErrorType       = "error_type"
	LogAttrFinalErrorType  = "final_error_type"
	LogAttrError           = "error"

	// SpanNamePrefix prefixes the operation name of every repository span.
	SpanNamePrefix = "repository."
)

// Interface aliases, so shell users need not import eventstore for observability.

type MetricsCollector = eventstore.MetricsCollector

type ContextualMetricsCollector = eventstore.ContextualMetricsCollector

type TracingCollector = eventstore.TracingCollector

type SpanContext = eventstore.SpanContext

type ContextualLogger = eventstore.ContextualLogger

type Logger = eventstore.Logger

// observer holds the optional collectors of a Repository.
type observer struct {
	logger           Logger
	contextualLogger ContextualLogger
	metrics          MetricsCollector
	tracing          TracingCollector
}

// observation is one observed repository operation.
type observation struct {
	observer  *observer
	ctx       context.Context
	operation string
	id        uuid.UUID
	start     time.Time
	span      SpanContext
}

func (o *observer) start(ctx context.Context, operation string, id uuid.UUID) (*observation, context.Context) {
	obs := &observation{observer: o, ctx: ctx, operation: operation, id: id, start: time.Now()}

	if o.tracing != nil {
		obs.ctx, obs.span = o.tracing.StartSpan(ctx, SpanNamePrefix+operation, map[string]string{
			LogAttrOperation:   operation,
			LogAttrAggregateID: id.String(),
		})
	}

	return obs, obs.ctx
}

// finish records the outcome. eventCount is the number of events loaded or saved.
func (obs *observation) finish(err error, eventCount int) {
	duration := time.Since(obs.start)
	status := StatusFor(err)
	labels := map[string]string{LogAttrOperation: obs.operation, LogAttrStatus: status}

	obs.observer.recordDuration(obs.ctx, RepositoryDurationMetric, duration, labels)
	obs.observer.incrementCounter(obs.ctx, RepositoryCallsMetric, labels)

	if obs.span != nil {
		attrs := map[string]string{
			LogAttrStatus:     status,
			LogAttrEventCount: fmt.Sprintf("%d", eventCount),
			LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
		}
		if err != nil {
			attrs[LogAttrError] = err.Error()
		}

		obs.observer.tracing.FinishSpan(obs.span, status, attrs)
	}

	args := []any{
		LogAttrOperation, obs.operation,
		LogAttrAggregateID, obs.id.String(),
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if err != nil {
		obs.observer.logError(obs.ctx, LogMsgRepositoryFailed, append(args, LogAttrError, err.Error())...)
		return
	}

	obs.observer.logInfo(obs.ctx, LogMsgRepositoryCompleted, append(args, LogAttrEventCount, eventCount)...)
}

func (o *observer) logDebug(ctx context.Context, msg string, args ...any) {
	if o.contextualLogger != nil {
		o.contextualLogger.DebugContext(ctx, msg, args...)
	} else if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}

func (o *observer) logInfo(ctx context.Context, msg string, args ...any) {
	if o.contextualLogger != nil {
		o.contextualLogger.InfoContext(ctx, msg, args...)
	} else if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o *observer) logError(ctx context.Context, msg string, args ...any) {
	if o.contextualLogger != nil {
		o.contextualLogger.ErrorContext(ctx, msg, args...)
	} else if o.logger != nil {
		o.logger.Error(msg, args...)
	}
}

func (o *observer) recordDuration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	recordDuration(ctx, o.metrics, metric, d, labels)
}

func (o *observer) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	incrementCounter(ctx, o.metrics, metric, labels)
}

func recordDuration(ctx context.Context, collector MetricsCollector, metric string, d time.Duration, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	collector.RecordDuration(metric, d, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// StatusFor classifies an operation outcome for metric labels and span status.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrAggregateNotFound):
		return StatusNotFound
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
