package shell

import (
	"errors"
	"fmt"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

type decodeFunc func(payloadJSON []byte) (domain.Event, error)

// EventRegistry maps event type names to decoders. It is the only place that knows the concrete event types
// of an application, so storage never has to.
//
// Register every event type at startup, then treat the registry as read-only: it is not safe for
// concurrent registration.
type EventRegistry struct {
	decoders map[string]decodeFunc
}

// NewEventRegistry creates an empty EventRegistry.
func NewEventRegistry() *EventRegistry {
	return &EventRegistry{decoders: make(map[string]decodeFunc)}
}

// RegisterEvent registers E under the event type reported by its zero value.
// Decoded events are validated again when E implements domain.Validator.
// Registering the same type twice replaces the decoder.
func RegisterEvent[E domain.Event](registry *EventRegistry) {
	var zero E

	registry.decoders[zero.EventType()] = func(payloadJSON []byte) (domain.Event, error) {
		var event E
		if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
			return nil, err
		}

		if validator, ok := any(event).(domain.Validator); ok {
			if err := validator.Validate(); err != nil {
				return nil, err
			}
		}

		return event, nil
	}
}

// Knows reports whether eventType was registered.
func (r *EventRegistry) Knows(eventType string) bool {
	_, ok := r.decoders[eventType]
	return ok
}

// EventTypes returns all registered event types in lexical order.
func (r *EventRegistry) EventTypes() []string {
	types := make([]string, 0, len(r.decoders))
	for eventType := range r.decoders {
		types = append(types, eventType)
	}

	slices.Sort(types)

	return types
}

// StorableEventFrom encodes a domain event and its metadata.
// Unregistered event types are rejected, because they could be written but never read back.
func (r *EventRegistry) StorableEventFrom(event domain.Event, metadata EventMetadata) (eventstore.StorableEvent, error) {
	if !r.Knows(event.EventType()) {
		return eventstore.StorableEvent{}, errors.Join(
			ErrMappingToStorableEventFailed,
			fmt.Errorf("%w: %s", ErrUnknownEventType, event.EventType()),
		)
	}

	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	metadataJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(metadata)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	storableEvent, err := eventstore.BuildStorableEvent(
		event.EventType(),
		domain.ToOccurredAt(event.HasOccurredAt()),
		payloadJSON,
		metadataJSON,
	)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	return storableEvent, nil
}

// DomainEventFrom decodes a storable event into the registered domain event type.
func (r *EventRegistry) DomainEventFrom(storableEvent eventstore.StorableEvent) (domain.Event, error) {
	decode, ok := r.decoders[storableEvent.EventType]
	if !ok {
		return nil, errors.Join(
			ErrMappingToDomainEventFailed,
			fmt.Errorf("%w: %s", ErrUnknownEventType, storableEvent.EventType),
		)
	}

	event, err := decode(storableEvent.PayloadJSON)
	if err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

// DomainEventsFrom decodes multiple storable events, keeping their order.
func (r *EventRegistry) DomainEventsFrom(storableEvents eventstore.StorableEvents) (domain.Events, error) {
	domainEvents := make(domain.Events, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := r.DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}
