package redisengine

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/internal/observe"
)

const (
	engineName = "redis"

	// DefaultKeyPrefix is the prefix of stream keys unless WithKeyPrefix says otherwise.
	DefaultKeyPrefix = "eventstore:stream:"

	commandRead   = "LRANGE"
	commandAppend = "WATCH LLEN MULTI RPUSH EXEC"
)

// EventStore is a Redis implementation of eventstore.Engine.
// It is safe for concurrent use.
type EventStore struct {
	client    redis.UniversalClient
	keyPrefix string
	obs       observe.Instruments
}

// lengthMismatch aborts a watched transaction when the stream length differs from the expected version.
type lengthMismatch struct {
	actual eventstore.StreamVersionUint
}

func (m lengthMismatch) Error() string {
	return "stream length differs from the expected version"
}

// NewEventStore creates a new EventStore on top of client with optional configuration.
func NewEventStore(client redis.UniversalClient, options ...Option) (*EventStore, error) {
	if client == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	es := &EventStore{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
		obs:       observe.Instruments{Engine: engineName},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// StreamKey returns the Redis key holding the stream of streamID.
func (es *EventStore) StreamKey(streamID uuid.UUID) string {
	return es.keyPrefix + streamID.String()
}

// ReadStream returns the events of streamID after fromVersion in stream order.
func (es *EventStore) ReadStream(
	ctx context.Context,
	streamID uuid.UUID,
	fromVersion eventstore.StreamVersionUint,
) (eventstore.StorableEvents, error) {

	op, ctx := es.obs.Start(ctx, observe.OperationRead, streamID, nil)

	raw, queryErr := es.client.LRange(ctx, es.StreamKey(streamID), int64(fromVersion), -1).Result()
	op.Statement(commandRead + " " + es.StreamKey(streamID))
	if queryErr != nil {
		op.Fail(observe.ErrorTypeQuery, queryErr)
		return nil, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	stream := make(eventstore.StorableEvents, 0, len(raw))
	for i, element := range raw {
		event, decodeErr := decodeRecord(element, streamID, fromVersion+uint(i)+1)
		if decodeErr != nil {
			op.Fail(observe.ErrorTypeDecode, decodeErr)
			return nil, errors.Join(eventstore.ErrBuildingStorableEventFailed, decodeErr)
		}

		stream = append(stream, event)
	}

	op.Succeed(len(stream))

	return stream, nil
}

// AppendToStream appends one or multiple events onto the stream of streamID if it currently holds
// exactly expectedVersion events.
func (es *EventStore) AppendToStream(
	ctx context.Context,
	streamID uuid.UUID,
	expectedVersion eventstore.StreamVersionUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	op, ctx := es.obs.Start(ctx, observe.OperationAppend, streamID, map[string]string{
		observe.AttrEventType: event.EventType,
	})

	if streamID == uuid.Nil {
		op.Fail(observe.ErrorTypeInvalidRequest, eventstore.ErrNilStreamID)
		return eventstore.ErrNilStreamID
	}

	values := make([]any, 0, len(allEvents))
	for _, storable := range allEvents {
		value, encodeErr := encodeRecord(storable)
		if encodeErr != nil {
			op.Fail(observe.ErrorTypeBuildStorable, encodeErr)
			return errors.Join(eventstore.ErrBuildingStorableEventFailed, encodeErr)
		}

		values = append(values, value)
	}

	key := es.StreamKey(streamID)

	txErr := es.client.Watch(ctx, func(tx *redis.Tx) error {
		length, err := tx.LLen(ctx, key).Result()
		if err != nil {
			return err
		}

		if eventstore.StreamVersionUint(length) != expectedVersion {
			return lengthMismatch{actual: eventstore.StreamVersionUint(length)}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, key, values...)
			return nil
		})

		return err
	}, key)
	op.Statement(commandAppend + " " + key)

	var mismatch lengthMismatch
	switch {
	case txErr == nil:
		op.Succeed(len(allEvents))
		return nil

	case errors.As(txErr, &mismatch):
		op.Conflict(expectedVersion, mismatch.actual)
		return eventstore.ErrConcurrencyConflict

	case errors.Is(txErr, redis.TxFailedErr):
		op.Conflict(expectedVersion, es.currentVersionForReport(ctx, streamID))
		return eventstore.ErrConcurrencyConflict

	default:
		op.Fail(observe.ErrorTypeExec, txErr)
		return errors.Join(eventstore.ErrAppendingEventFailed, txErr)
	}
}

// CurrentVersion returns the number of events in the stream of streamID.
func (es *EventStore) CurrentVersion(ctx context.Context, streamID uuid.UUID) (eventstore.StreamVersionUint, error) {
	length, err := es.client.LLen(ctx, es.StreamKey(streamID)).Result()
	if err != nil {
		return 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	return eventstore.StreamVersionUint(length), nil
}

func (es *EventStore) currentVersionForReport(ctx context.Context, streamID uuid.UUID) eventstore.StreamVersionUint {
	version, err := es.CurrentVersion(ctx, streamID)
	if err != nil {
		es.obs.Warn(ctx, "failed to read the current stream version after a conflict", err, observe.AttrStreamID, streamID.String())
	}

	return version
}
