package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
	"github.com/AntonStoeckl/entity-eventstore-go/testutil/spies"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	callCount := 0

	result, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
		callCount++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, time.Duration(0), result.TotalDelay)
	assert.Equal(t, "none", result.LastErrorType)
	assert.False(t, result.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	callCount := 0

	result, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
		callCount++
		if callCount < 3 {
			return eventstore.ErrConcurrencyConflict
		}

		return nil
	}, shell.WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, result.Attempts)
	assert.GreaterOrEqual(t, result.TotalDelay, 3*time.Millisecond)
	assert.Equal(t, "none", result.LastErrorType)
}

func Test_RetryWithExponentialBackoff_When_ErrorIsNotRetryable_Then_ItFailsFast(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantType string
	}{
		{name: "other", err: errors.New("boom"), wantType: "other"},
		{name: "deadline", err: context.DeadlineExceeded, wantType: "context_deadline_exceeded"},
		{name: "canceled", err: context.Canceled, wantType: "context_canceled"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			callCount := 0

			result, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
				callCount++
				return tc.err
			})

			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, 1, callCount)
			assert.Equal(t, tc.wantType, result.LastErrorType)
			assert.False(t, result.RetriesExhausted)
		})
	}
}

func Test_RetryWithExponentialBackoff_When_AttemptsAreExhausted_Then_LastErrorIsReturned(t *testing.T) {
	// arrange
	metrics := spies.NewMetricsCollectorSpy()
	callCount := 0

	// act
	result, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
		callCount++
		return eventstore.ErrConcurrencyConflict
	},
		shell.WithMaxAttempts(3),
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
		shell.WithRetryMetrics(metrics, "rename"),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3*time.Millisecond, result.TotalDelay)
	assert.True(t, result.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", result.LastErrorType)

	assert.True(t, metrics.HasCounter(shell.RetriesMetric, map[string]string{
		shell.LogAttrOperation:     "rename",
		shell.LogAttrAttemptNumber: "2",
	}))
	assert.True(t, metrics.HasDuration(shell.RetryDelayMetric, map[string]string{
		shell.LogAttrAttemptNumber: "3",
	}))
	assert.True(t, metrics.HasCounter(shell.MaxRetriesReachedMetric, map[string]string{
		shell.LogAttrFinalErrorType: "concurrency_conflict",
	}))
}

func Test_RetryWithExponentialBackoff_When_ContextIsCanceledDuringBackoff_Then_ItStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	result, err := shell.RetryWithExponentialBackoff(ctx, func(context.Context) error {
		callCount++
		cancel()
		return eventstore.ErrConcurrencyConflict
	}, shell.WithBaseDelay(time.Hour))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_canceled", result.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	testCases := []struct {
		name    string
		option  shell.RetryOption
		wantErr error
	}{
		{name: "max attempts", option: shell.WithMaxAttempts(0), wantErr: shell.ErrInvalidMaxAttempts},
		{name: "base delay", option: shell.WithBaseDelay(-time.Second), wantErr: shell.ErrNegativeBaseDelay},
		{name: "jitter too big", option: shell.WithJitterFactor(1.5), wantErr: shell.ErrInvalidJitterFactor},
		{name: "jitter negative", option: shell.WithJitterFactor(-0.1), wantErr: shell.ErrInvalidJitterFactor},
		{name: "nil metrics", option: shell.WithRetryMetrics(nil, "op"), wantErr: shell.ErrNilMetricsCollector},
		{name: "empty operation", option: shell.WithRetryMetrics(spies.NewMetricsCollectorSpy(), ""), wantErr: shell.ErrEmptyOperation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false

			_, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
				called = true
				return nil
			}, tc.option)

			require.ErrorIs(t, err, tc.wantErr)
			assert.False(t, called)
		})
	}
}
