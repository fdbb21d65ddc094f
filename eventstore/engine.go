package eventstore

import (
	"context"

	"github.com/google/uuid"
)

// Engine is the scalar storage contract every stream backend implements.
//
// Each entity identity owns exactly one stream: an ordered, append-only list of StorableEvent.
// Engines know nothing about domain types.
type Engine interface {
	// ReadStream returns the events of streamID whose StreamVersion is greater than fromVersion,
	// in append order. An unknown stream yields an empty result and no error.
	ReadStream(ctx context.Context, streamID uuid.UUID, fromVersion StreamVersionUint) (StorableEvents, error)

	// AppendToStream appends all events to streamID atomically if the stream currently holds exactly
	// expectedVersion events, and fails with ErrConcurrencyConflict otherwise.
	AppendToStream(
		ctx context.Context,
		streamID uuid.UUID,
		expectedVersion StreamVersionUint,
		event StorableEvent,
		additionalEvents ...StorableEvent,
	) error
}
