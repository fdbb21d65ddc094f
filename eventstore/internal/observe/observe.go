// Package observe holds the logging, metrics and tracing plumbing shared by the stream engines.
//
// Every engine operation is wrapped in an Operation: it opens a span, measures the duration and
// finishes with exactly one of Succeed, Conflict or Fail, which records the matching metrics,
// span status and log line. All collectors are optional.
package observe

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

const (
	OperationRead   = "read"
	OperationAppend = "append"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusConflict = "conflict"

	SpanNameRead   = "eventstore.read"
	SpanNameAppend = "eventstore.append"

	MetricReadDuration         = "eventstore_read_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsRead           = "eventstore_events_read_total"
	MetricEventsAppended       = "eventstore_events_appended_total"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricErrors               = "eventstore_errors_total"

	AttrEngine          = "engine"
	AttrOperation       = "operation"
	AttrStatus          = "status"
	AttrStreamID        = "stream_id"
	AttrFromVersion     = "from_version"
	AttrExpectedVersion = "expected_version"
	AttrActualVersion   = "actual_version"
	AttrEventCount      = "event_count"
	AttrEventType       = "event_type"
	AttrErrorType       = "error_type"
	AttrDurationMS      = "duration_ms"
	AttrError           = "error"
	AttrQuery           = "query"

	ErrorTypeBuildQuery     = "build_query"
	ErrorTypeQuery          = "query"
	ErrorTypeScan           = "row_scan"
	ErrorTypeBuildStorable  = "build_storable_event"
	ErrorTypeExec           = "exec"
	ErrorTypeRowsAffected   = "rows_affected"
	ErrorTypeDecode         = "decode"
	ErrorTypeInvalidRequest = "invalid_request"
	ErrorTypeConflict       = "concurrency_conflict"

	logMsgOperation = "eventstore operation: "
	logMsgCompleted = "completed"
	logMsgConflict  = "concurrency conflict detected"
	logMsgFailed    = "failed"
	logMsgExecuted  = "executed statement for: "
)

// Instruments bundles the optional collectors of one engine instance.
type Instruments struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Operation is one observed read or append.
type Operation struct {
	in     *Instruments
	ctx    context.Context
	name   string
	stream uuid.UUID
	start  time.Time
	span   eventstore.SpanContext
}

// Start opens an Operation and returns the context to pass down, which carries the span if tracing is on.
func (in *Instruments) Start(
	ctx context.Context,
	operation string,
	streamID uuid.UUID,
	attrs map[string]string,
) (*Operation, context.Context) {
	op := &Operation{
		in:     in,
		ctx:    ctx,
		name:   operation,
		stream: streamID,
		start:  time.Now(),
	}

	if in.Tracing != nil {
		spanAttrs := map[string]string{
			AttrEngine:    in.Engine,
			AttrOperation: operation,
			AttrStreamID:  streamID.String(),
		}
		for key, value := range attrs {
			spanAttrs[key] = value
		}

		op.ctx, op.span = in.Tracing.StartSpan(ctx, spanName(operation), spanAttrs)
	}

	return op, op.ctx
}

// Statement logs an executed backend statement at debug level.
func (op *Operation) Statement(statement string) {
	op.in.Debug(
		op.ctx,
		logMsgExecuted+op.name,
		AttrDurationMS, ToMilliseconds(time.Since(op.start)),
		AttrQuery, statement,
	)
}

// Succeed finishes a successful operation that read or appended eventCount events.
func (op *Operation) Succeed(eventCount int) {
	duration := time.Since(op.start)

	op.in.recordDuration(op.ctx, durationMetric(op.name), duration, op.labels(StatusSuccess))
	op.in.recordValue(op.ctx, countMetric(op.name), float64(eventCount), op.labels(StatusSuccess))

	op.finishSpan(StatusSuccess, map[string]string{
		AttrEventCount: fmt.Sprintf("%d", eventCount),
		AttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	})

	op.in.Info(
		op.ctx,
		logMsgOperation+op.name+" "+logMsgCompleted,
		AttrStreamID, op.stream.String(),
		AttrEventCount, eventCount,
		AttrDurationMS, ToMilliseconds(duration),
	)
}

// Conflict finishes an append that lost the compare-and-append race.
func (op *Operation) Conflict(expectedVersion, actualVersion eventstore.StreamVersionUint) {
	duration := time.Since(op.start)

	op.in.recordDuration(op.ctx, durationMetric(op.name), duration, op.labels(StatusConflict))
	op.in.incrementCounter(op.ctx, MetricConcurrencyConflicts, map[string]string{
		AttrEngine:    op.in.Engine,
		AttrOperation: op.name,
	})

	op.finishSpan(StatusConflict, map[string]string{
		AttrErrorType:       ErrorTypeConflict,
		AttrExpectedVersion: fmt.Sprintf("%d", expectedVersion),
		AttrActualVersion:   fmt.Sprintf("%d", actualVersion),
	})

	op.in.Info(
		op.ctx,
		logMsgOperation+logMsgConflict,
		AttrStreamID, op.stream.String(),
		AttrExpectedVersion, expectedVersion,
		AttrActualVersion, actualVersion,
	)
}

// Fail finishes a failed operation. errorType is one of the ErrorType constants.
func (op *Operation) Fail(errorType string, err error, args ...any) {
	duration := time.Since(op.start)

	op.in.recordDuration(op.ctx, durationMetric(op.name), duration, op.labels(StatusError))

	errorLabels := op.labels(StatusError)
	errorLabels[AttrErrorType] = errorType
	op.in.incrementCounter(op.ctx, MetricErrors, errorLabels)

	op.finishSpan(StatusError, map[string]string{
		AttrErrorType:  errorType,
		AttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	})

	allArgs := []any{AttrStreamID, op.stream.String(), AttrErrorType, errorType}
	allArgs = append(allArgs, args...)
	op.in.Error(op.ctx, logMsgOperation+op.name+" "+logMsgFailed, err, allArgs...)
}

func (op *Operation) labels(status string) map[string]string {
	return map[string]string{
		AttrEngine:    op.in.Engine,
		AttrOperation: op.name,
		AttrStatus:    status,
	}
}

func (op *Operation) finishSpan(status string, attrs map[string]string) {
	if op.in.Tracing == nil || op.span == nil {
		return
	}

	op.span.SetStatus(status)
	op.in.Tracing.FinishSpan(op.span, status, attrs)
}

// Debug logs to every configured logger.
func (in *Instruments) Debug(ctx context.Context, msg string, args ...any) {
	if in.Logger != nil {
		in.Logger.Debug(msg, args...)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.DebugContext(ctx, msg, args...)
	}
}

// Info logs to every configured logger.
func (in *Instruments) Info(ctx context.Context, msg string, args ...any) {
	if in.Logger != nil {
		in.Logger.Info(msg, args...)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.InfoContext(ctx, msg, args...)
	}
}

// Warn logs to every configured logger.
func (in *Instruments) Warn(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{AttrError, err.Error()}, args...)

	if in.Logger != nil {
		in.Logger.Warn(msg, allArgs...)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.WarnContext(ctx, msg, allArgs...)
	}
}

// Error logs err to every configured logger.
func (in *Instruments) Error(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{AttrError, err.Error()}, args...)

	if in.Logger != nil {
		in.Logger.Error(msg, allArgs...)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

func (in *Instruments) recordDuration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if in.Metrics == nil {
		return
	}

	if contextual, ok := in.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	in.Metrics.RecordDuration(metric, d, labels)
}

func (in *Instruments) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if in.Metrics == nil {
		return
	}

	if contextual, ok := in.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	in.Metrics.RecordValue(metric, value, labels)
}

func (in *Instruments) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if in.Metrics == nil {
		return
	}

	if contextual, ok := in.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	in.Metrics.IncrementCounter(metric, labels)
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func spanName(operation string) string {
	if operation == OperationAppend {
		return SpanNameAppend
	}

	return SpanNameRead
}

func durationMetric(operation string) string {
	if operation == OperationAppend {
		return MetricAppendDuration
	}

	return MetricReadDuration
}

func countMetric(operation string) string {
	if operation == OperationAppend {
		return MetricEventsAppended
	}

	return MetricEventsRead
}
