package domain

import (
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"
)

// Owner is anything that contributes entities to an owned graph: an Entity itself,
// an EntityList, or a domain type embedding either.
type Owner interface {
	AllOwnedEntities() iter.Seq[*Entity]
}

// Entity is the embeddable base of every event-sourced domain object.
//
// It holds the identity, the version (number of applied events), the staged events which
// are not yet persisted, the handler table and the declared owned children.
// The zero value is an unidentified entity without handlers, ready to use.
//
// Entity is not safe for concurrent use.
type Entity struct {
	id       uuid.UUID
	version  uint
	staged   Events
	handlers map[string]EventHandler
	owned    []Owner
}

// NewIdentity allocates a fresh random identity for a new logical entity.
func NewIdentity() uuid.UUID {
	return uuid.New()
}

// ID returns the identity, uuid.Nil while the entity is unidentified.
func (e *Entity) ID() uuid.UUID {
	return e.id
}

// HasIdentity reports whether an identity was assigned.
func (e *Entity) HasIdentity() bool {
	return e.id != uuid.Nil
}

// AssignIdentity sets the identity once. Assigning the same identity again is a no-op,
// assigning a different one fails with ErrIdentityAlreadyAssigned.
func (e *Entity) AssignIdentity(id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrMissingIdentity
	}

	if e.HasIdentity() && e.id != id {
		return fmt.Errorf("%w: %s", ErrIdentityAlreadyAssigned, e.id)
	}

	e.id = id

	return nil
}

// Version returns the number of events applied to this entity, replayed or staged.
func (e *Entity) Version() uint {
	return e.version
}

// CommittedVersion returns the number of applied events that are already persisted.
// It is the stream length the entity was loaded with and the expected version for the next append.
func (e *Entity) CommittedVersion() uint {
	return e.version - uint(len(e.staged))
}

// AsEntity returns the embedded base, it lets code holding a concrete domain type reach the kernel.
func (e *Entity) AsEntity() *Entity {
	return e
}

// RegisterHandler associates handler with eventType for this entity. Last write wins.
// It panics if handler is nil.
func (e *Entity) RegisterHandler(eventType string, handler EventHandler) {
	if handler == nil {
		panic(ErrNilHandler)
	}

	if e.handlers == nil {
		e.handlers = make(map[string]EventHandler)
	}

	e.handlers[eventType] = handler
}

// Owns declares owned children (entity lists or single entities) in declaration order.
// The order is the flattening order of AllOwnedEntities and AllStagedEvents.
func (e *Entity) Owns(children ...Owner) {
	e.owned = append(e.owned, children...)
}

// Apply dispatches event to the handler registered for its type and stages it.
//
// An event type without a registered handler is ignored by this entity but still staged.
// If the handler fails, nothing is staged and the version is unchanged.
func (e *Entity) Apply(event Event) error {
	if event == nil {
		return ErrNilEvent
	}

	if handler, ok := e.handlers[event.EventType()]; ok {
		if err := handler.Handle(event); err != nil {
			return err
		}
	}

	e.staged = append(e.staged, event)
	e.version++

	return nil
}

// StagedEvents returns a copy of this entity's own staged events.
func (e *Entity) StagedEvents() Events {
	return slices.Clone(e.staged)
}

// HasStagedEvents reports whether this entity has events that are not yet persisted.
func (e *Entity) HasStagedEvents() bool {
	return len(e.staged) > 0
}

// ClearStaged empties the staged buffer. It is idempotent.
func (e *Entity) ClearStaged() {
	e.staged = nil
}

// AllOwnedEntities yields this entity, then every entity owned through its declared children,
// depth first in declaration order and then insertion order.
func (e *Entity) AllOwnedEntities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		e.walk(yield)
	}
}

func (e *Entity) walk(yield func(*Entity) bool) bool {
	if !yield(e) {
		return false
	}

	for _, child := range e.owned {
		for owned := range child.AllOwnedEntities() {
			if !yield(owned) {
				return false
			}
		}
	}

	return true
}

// AllStagedEvents yields the staged events of every owned entity in AllOwnedEntities order.
func (e *Entity) AllStagedEvents() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for owned := range e.AllOwnedEntities() {
			for _, event := range owned.staged {
				if !yield(event) {
					return
				}
			}
		}
	}
}

// ClearAllStaged empties the staged buffer of every owned entity.
func (e *Entity) ClearAllStaged() {
	for owned := range e.AllOwnedEntities() {
		owned.ClearStaged()
	}
}
