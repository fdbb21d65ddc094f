// Package enginetest holds the behavior every eventstore.Engine must show, as a reusable test suite.
package enginetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

// Factory returns a ready engine. It is called once per sub test.
type Factory func(t *testing.T) eventstore.Engine

// StorableEvent builds a valid storable event of the given type.
func StorableEvent(t *testing.T, eventType string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEvent(
		eventType,
		time.Now().UTC().Truncate(time.Microsecond),
		[]byte(fmt.Sprintf(`{"EventType": %q}`, eventType)),
		[]byte(`{"MessageID": "m-1"}`),
	)
	require.NoError(t, err)

	return event
}

// RunContract runs the engine contract against engines built by factory.
func RunContract(t *testing.T, factory Factory) {
	t.Run("unknown stream reads empty", func(t *testing.T) {
		engine := factory(t)

		events, err := engine.ReadStream(context.Background(), uuid.New(), 0)

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("appended events are read back in order with positions", func(t *testing.T) {
		ctx := context.Background()
		engine := factory(t)
		streamID := uuid.New()
		first, second := StorableEvent(t, "CompanyFounded"), StorableEvent(t, "EmployeeHired")

		require.NoError(t, engine.AppendToStream(ctx, streamID, 0, first, second))
		require.NoError(t, engine.AppendToStream(ctx, streamID, 2, StorableEvent(t, "EmployeeHired")))
		events, err := engine.ReadStream(ctx, streamID, 0)

		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "CompanyFounded", events[0].EventType)
		assert.JSONEq(t, string(first.PayloadJSON), string(events[0].PayloadJSON))
		assert.JSONEq(t, string(first.MetadataJSON), string(events[0].MetadataJSON))
		assert.True(t, first.OccurredAt.Equal(events[0].OccurredAt))
		for i, event := range events {
			assert.Equal(t, streamID, event.StreamID)
			assert.Equal(t, eventstore.StreamVersionUint(i+1), event.StreamVersion)
		}
	})

	t.Run("read from version returns the suffix", func(t *testing.T) {
		ctx := context.Background()
		engine := factory(t)
		streamID := uuid.New()
		require.NoError(t, engine.AppendToStream(ctx, streamID, 0,
			StorableEvent(t, "A"), StorableEvent(t, "B"), StorableEvent(t, "C")))

		events, err := engine.ReadStream(ctx, streamID, 1)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "B", events[0].EventType)

		events, err = engine.ReadStream(ctx, streamID, 3)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("stale expected version conflicts and appends nothing", func(t *testing.T) {
		ctx := context.Background()
		engine := factory(t)
		streamID := uuid.New()
		require.NoError(t, engine.AppendToStream(ctx, streamID, 0, StorableEvent(t, "A")))

		err := engine.AppendToStream(ctx, streamID, 0, StorableEvent(t, "B"), StorableEvent(t, "C"))
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

		err = engine.AppendToStream(ctx, streamID, 5, StorableEvent(t, "B"))
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

		events, readErr := engine.ReadStream(ctx, streamID, 0)
		require.NoError(t, readErr)
		assert.Len(t, events, 1)
	})

	t.Run("streams are isolated", func(t *testing.T) {
		ctx := context.Background()
		engine := factory(t)
		first, second := uuid.New(), uuid.New()

		require.NoError(t, engine.AppendToStream(ctx, first, 0, StorableEvent(t, "A")))
		require.NoError(t, engine.AppendToStream(ctx, second, 0, StorableEvent(t, "B")))

		events, err := engine.ReadStream(ctx, second, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "B", events[0].EventType)
	})

	t.Run("nil stream id is rejected", func(t *testing.T) {
		engine := factory(t)

		err := engine.AppendToStream(context.Background(), uuid.Nil, 0, StorableEvent(t, "A"))

		assert.ErrorIs(t, err, eventstore.ErrNilStreamID)
	})

	t.Run("concurrent appends with the same expected version have exactly one winner", func(t *testing.T) {
		ctx := context.Background()
		engine := factory(t)
		streamID := uuid.New()
		event := StorableEvent(t, "A")
		const writers = 8

		var wg sync.WaitGroup
		results := make(chan error, writers)
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- engine.AppendToStream(ctx, streamID, 0, event)
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
		}

		assert.Equal(t, 1, succeeded)
	})
}
