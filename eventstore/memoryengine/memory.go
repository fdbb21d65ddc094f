package memoryengine

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/internal/observe"
)

const engineName = "memory"

// EventStore keeps one ordered slice of eventstore.StorableEvent per stream.
// It is safe for concurrent use.
type EventStore struct {
	mu      sync.RWMutex
	streams map[uuid.UUID]eventstore.StorableEvents
	obs     observe.Instruments
}

// NewEventStore creates an empty EventStore with optional configuration.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		streams: make(map[uuid.UUID]eventstore.StorableEvents),
		obs:     observe.Instruments{Engine: engineName},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// ReadStream returns copies of the events of streamID after fromVersion, in append order.
func (es *EventStore) ReadStream(
	ctx context.Context,
	streamID uuid.UUID,
	fromVersion eventstore.StreamVersionUint,
) (eventstore.StorableEvents, error) {

	op, ctx := es.obs.Start(ctx, observe.OperationRead, streamID, nil)

	if err := ctx.Err(); err != nil {
		op.Fail(observe.ErrorTypeQuery, err)
		return nil, err
	}

	es.mu.RLock()
	stream := es.streams[streamID]
	result := make(eventstore.StorableEvents, 0)
	if fromVersion < uint(len(stream)) {
		result = append(result, stream[fromVersion:]...)
	}
	es.mu.RUnlock()

	for i := range result {
		result[i] = copyEvent(result[i])
	}

	op.Succeed(len(result))

	return result, nil
}

// AppendToStream appends all events to streamID if it currently holds exactly expectedVersion events.
func (es *EventStore) AppendToStream(
	ctx context.Context,
	streamID uuid.UUID,
	expectedVersion eventstore.StreamVersionUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	op, ctx := es.obs.Start(ctx, observe.OperationAppend, streamID, nil)

	if streamID == uuid.Nil {
		op.Fail(observe.ErrorTypeInvalidRequest, eventstore.ErrNilStreamID)
		return eventstore.ErrNilStreamID
	}

	if err := ctx.Err(); err != nil {
		op.Fail(observe.ErrorTypeExec, err)
		return err
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	stream := es.streams[streamID]
	actualVersion := eventstore.StreamVersionUint(len(stream))

	if actualVersion != expectedVersion {
		op.Conflict(expectedVersion, actualVersion)
		return eventstore.ErrConcurrencyConflict
	}

	for i, storable := range allEvents {
		stream = append(stream, copyEvent(storable).AtPosition(streamID, expectedVersion+uint(i)+1))
	}

	es.streams[streamID] = stream

	op.Succeed(len(allEvents))

	return nil
}

// StreamIDs returns the identities of all non-empty streams in unspecified order.
func (es *EventStore) StreamIDs() []uuid.UUID {
	es.mu.RLock()
	defer es.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(es.streams))
	for id := range es.streams {
		ids = append(ids, id)
	}

	return ids
}

func copyEvent(event eventstore.StorableEvent) eventstore.StorableEvent {
	event.PayloadJSON = slices.Clone(event.PayloadJSON)
	event.MetadataJSON = slices.Clone(event.MetadataJSON)

	return event
}
