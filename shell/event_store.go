package shell

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

// EventStore persists aggregates as one stream per owned entity and reads those streams back as domain events.
//
// Save appends each entity's staged events under compare-and-append, using the entity's committed version as
// the expected stream version. Each entity's append is atomic; the appends of one aggregate are not atomic
// across entities. When the first append fails nothing was written and nothing is cleared, so a concurrency
// conflict there can be retried on a fresh load, which Repository.Update does. When a later append fails,
// the entities appended before it stay appended with their staged buffers cleared and the error is
// ErrPartiallySaved, which is never retried.
type EventStore struct {
	engine   eventstore.Engine
	registry *EventRegistry
	logger   Logger
}

// EventStoreOption configures an EventStore.
type EventStoreOption func(*EventStore) error

// WithStoreLogger sets the logger for debug output of every append.
func WithStoreLogger(logger Logger) EventStoreOption {
	return func(s *EventStore) error {
		s.logger = logger
		return nil
	}
}

// pendingAppend is the mapped form of one entity's staged events.
type pendingAppend struct {
	entity          *domain.Entity
	expectedVersion eventstore.StreamVersionUint
	domainEvents    domain.Events
	storableEvents  eventstore.StorableEvents
}

// NewEventStore creates an EventStore on top of a stream engine.
func NewEventStore(engine eventstore.Engine, registry *EventRegistry, options ...EventStoreOption) (*EventStore, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}

	if registry == nil {
		return nil, ErrNilRegistry
	}

	s := &EventStore{engine: engine, registry: registry}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Registry returns the EventRegistry used for encoding and decoding.
func (s *EventStore) Registry() *EventRegistry {
	return s.registry
}

// Save persists the staged events of every entity owned by aggregate, then clears all staged buffers.
func (s *EventStore) Save(ctx context.Context, aggregate domain.Aggregate) error {
	_, err := s.save(ctx, aggregate)
	return err
}

// save returns the committed events in append order, also when it fails with ErrPartiallySaved.
func (s *EventStore) save(ctx context.Context, aggregate domain.Aggregate) (domain.Events, error) {
	if isNilAggregate(aggregate) {
		return nil, ErrNilAggregate
	}

	pending, err := s.pendingAppends(ctx, aggregate)
	if err != nil {
		return nil, err
	}

	committed := make(domain.Events, 0)

	for _, p := range pending {
		appendErr := s.engine.AppendToStream(ctx, p.entity.ID(), p.expectedVersion, p.storableEvents[0], p.storableEvents[1:]...)
		if appendErr != nil {
			if len(committed) == 0 {
				return nil, fmt.Errorf("saving entity %s: %w", p.entity.ID(), appendErr)
			}

			// the cause is not wrapped, a conflict here must not look retryable
			return committed, fmt.Errorf("%w: entity %s: %v", ErrPartiallySaved, p.entity.ID(), appendErr)
		}

		p.entity.ClearStaged()

		if s.logger != nil {
			s.logger.Debug(logMsgEntityAppended,
				LogAttrEntityID, p.entity.ID().String(),
				LogAttrExpectedVersion, p.expectedVersion,
				LogAttrEventCount, len(p.storableEvents),
			)
		}

		committed = append(committed, p.domainEvents...)
	}

	aggregate.AsEntity().ClearAllStaged()

	return committed, nil
}

// pendingAppends maps everything before the first append, so an unmappable event writes nothing.
func (s *EventStore) pendingAppends(ctx context.Context, aggregate domain.Aggregate) ([]pendingAppend, error) {
	saveID := uuid.New()
	pending := make([]pendingAppend, 0)

	for entity := range aggregate.AllOwnedEntities() {
		if !entity.HasStagedEvents() {
			continue
		}

		if !entity.HasIdentity() {
			return nil, domain.ErrMissingIdentity
		}

		staged := entity.StagedEvents()
		storableEvents := make(eventstore.StorableEvents, 0, len(staged))

		for _, event := range staged {
			storableEvent, err := s.registry.StorableEventFrom(event, metadataFor(ctx, saveID))
			if err != nil {
				return nil, err
			}

			storableEvents = append(storableEvents, storableEvent)
		}

		pending = append(pending, pendingAppend{
			entity:          entity,
			expectedVersion: eventstore.StreamVersionUint(entity.CommittedVersion()),
			domainEvents:    staged,
			storableEvents:  storableEvents,
		})
	}

	return pending, nil
}

// GetAllEvents returns all events of the entity with the given identity, oldest first.
// An identity without events yields an empty result.
func (s *EventStore) GetAllEvents(ctx context.Context, id uuid.UUID) (domain.Events, error) {
	return s.GetEventsFromVersion(ctx, id, 0)
}

// GetEventsFromVersion returns the events of the entity with the given identity, skipping the first version events.
func (s *EventStore) GetEventsFromVersion(ctx context.Context, id uuid.UUID, version uint) (domain.Events, error) {
	if id == uuid.Nil {
		return nil, domain.ErrMissingIdentity
	}

	storableEvents, err := s.engine.ReadStream(ctx, id, version)
	if err != nil {
		return nil, err
	}

	return s.registry.DomainEventsFrom(storableEvents)
}

func isNilAggregate(aggregate domain.Aggregate) bool {
	if aggregate == nil {
		return true
	}

	rv := reflect.ValueOf(aggregate)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
