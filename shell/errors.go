package shell

import "errors"

var (
	// ErrNilAggregate is returned when a nil aggregate is saved.
	ErrNilAggregate = errors.New("aggregate must not be nil")

	// ErrNilEngine is returned when an EventStore is built without a stream engine.
	ErrNilEngine = errors.New("stream engine must not be nil")

	// ErrNilEventStore is returned when a Repository is built without an EventStore.
	ErrNilEventStore = errors.New("event store must not be nil")

	// ErrNilRegistry is returned when an EventStore is built without an EventRegistry.
	ErrNilRegistry = errors.New("event registry must not be nil")

	// ErrNilFactory is returned when a Repository is built without an aggregate factory.
	ErrNilFactory = errors.New("aggregate factory must not be nil")

	// ErrNilRouter is returned when a nil router is configured.
	ErrNilRouter = errors.New("event router must not be nil")

	// ErrAggregateNotFound is returned by Repository.Load when the root stream is empty.
	ErrAggregateNotFound = errors.New("aggregate not found")

	// ErrMappingToStorableEventFailed is returned when a domain event cannot be encoded.
	ErrMappingToStorableEventFailed = errors.New("mapping to storable event failed")

	// ErrMappingToDomainEventFailed is returned when a storable event cannot be decoded.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrUnknownEventType is returned for event types that were never registered.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrMappingToEventMetadataFailed is returned when metadata cannot be decoded.
	ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

	// ErrPartiallySaved is returned when some entities of an aggregate were appended before another append failed.
	// The appended entities are committed, the others still hold their staged events.
	ErrPartiallySaved = errors.New("aggregate was partially saved")

	// ErrRoutingFailed is returned when a committed event could not be routed.
	ErrRoutingFailed = errors.New("routing a committed event failed")
)
