package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events.
type CorrelationID = string

// EventMetadata is stored next to every event payload.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

type metadataContextKey struct{}

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// WithCausation returns a context whose saves record causationID and correlationID in the metadata of every event.
func WithCausation(ctx context.Context, causationID uuid.UUID, correlationID uuid.UUID) context.Context {
	return context.WithValue(ctx, metadataContextKey{}, EventMetadata{
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	})
}

// metadataFor builds the metadata for one event saved under ctx.
// Without WithCausation, one save is its own cause and correlation: fallback is used for both.
func metadataFor(ctx context.Context, fallback uuid.UUID) EventMetadata {
	metadata, ok := ctx.Value(metadataContextKey{}).(EventMetadata)
	if !ok {
		metadata = EventMetadata{CausationID: fallback.String(), CorrelationID: fallback.String()}
	}

	metadata.MessageID = uuid.NewString()

	return metadata
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)
	if err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}
