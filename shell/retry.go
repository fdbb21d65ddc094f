package shell

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3

	errorTypeNone                    = "none"
	errorTypeConcurrencyConflict     = "concurrency_conflict"
	errorTypeContextCanceled         = "context_canceled"
	errorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	errorTypeOther                   = "other"
)

var (
	// ErrNilMetricsCollector is returned when a nil metrics collector is provided to WithRetryMetrics.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrEmptyOperation is returned when an empty operation name is provided to WithRetryMetrics.
	ErrEmptyOperation = errors.New("operation must not be empty")

	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryResult describes how a retried call went.
type RetryResult struct {
	// Attempts is the number of calls made, 1 when the first call settled it.
	Attempts int

	// TotalDelay is the time spent in backoff, excluding the calls themselves.
	TotalDelay time.Duration

	// LastErrorType classifies the final error: none, concurrency_conflict, context_canceled,
	// context_deadline_exceeded or other.
	LastErrorType string

	// RetriesExhausted is true when every attempt ended in a retryable error.
	RetriesExhausted bool
}

type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector MetricsCollector
	operation        string
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// RetryWithExponentialBackoff calls fn until it succeeds, fails with a non-retryable error, or maxAttempts is reached.
//
// Only eventstore.ErrConcurrencyConflict is retried; every other error, including context deadlines, fails fast.
// The delay before attempt n (n >= 2) is baseDelay * 2^(n-2) plus up to jitterFactor of it at random.
//
// Default schedule: 0, 10, 20, 40, 80, 160 ms plus up to 30% jitter.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) (RetryResult, error) {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryResult{}, err
		}
	}

	var result RetryResult
	var lastErr error

	for attempt := 1; attempt <= config.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := backoffDelay(config, attempt)
			recordDuration(ctx, config.metricsCollector, RetryDelayMetric, delay, config.labels(
				LogAttrAttemptNumber, fmt.Sprintf("%d", attempt),
			))

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
				result.TotalDelay += delay
			case <-ctx.Done():
				timer.Stop()
				result.LastErrorType = errorType(ctx.Err())
				return result, ctx.Err()
			}
		}

		result.Attempts = attempt
		lastErr = fn(ctx)
		result.LastErrorType = errorType(lastErr)

		if lastErr == nil || !isRetryableError(lastErr) {
			return result, lastErr
		}

		if attempt < config.maxAttempts {
			incrementCounter(ctx, config.metricsCollector, RetriesMetric, config.labels(
				LogAttrAttemptNumber, fmt.Sprintf("%d", attempt),
				LogAttrErrorType, result.LastErrorType,
			))
		}
	}

	result.RetriesExhausted = true
	incrementCounter(ctx, config.metricsCollector, MaxRetriesReachedMetric, config.labels(
		LogAttrFinalErrorType, result.LastErrorType,
	))

	return result, lastErr
}

func backoffDelay(config *retryConfig, attempt int) time.Duration {
	delay := config.baseDelay * time.Duration(1<<(attempt-2))
	jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // math/rand is sufficient for jitter

	return delay + time.Duration(jitter)
}

func (c *retryConfig) labels(keyValues ...string) map[string]string {
	labels := map[string]string{LogAttrOperation: c.operation}
	for i := 0; i+1 < len(keyValues); i += 2 {
		labels[keyValues[i]] = keyValues[i+1]
	}

	return labels
}

// isRetryableError reports whether err is worth another attempt.
// Timeouts are not: retrying them under overload makes the overload worse.
func isRetryableError(err error) bool {
	return errors.Is(err, eventstore.ErrConcurrencyConflict)
}

func errorType(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return errorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return errorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeContextDeadlineExceeded
	default:
		return errorTypeOther
	}
}

// WithMaxAttempts sets the maximum number of attempts, the first call included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the delay before the second attempt. Each further delay doubles it.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the random share added to each delay, from 0.0 (none) to 1.0 (up to double).
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithRetryMetrics records retries, delays and exhaustion, labeled with operation.
func WithRetryMetrics(collector MetricsCollector, operation string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if operation == "" {
			return ErrEmptyOperation
		}

		config.metricsCollector = collector
		config.operation = operation

		return nil
	}
}
