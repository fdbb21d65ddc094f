package domain

import (
	"fmt"
	"iter"
	"reflect"
	"slices"

	"github.com/google/uuid"
)

// Member is the constraint for entities held by an EntityList.
// Pointers to types embedding Entity satisfy it.
type Member interface {
	ID() uuid.UUID
	Owner
}

// EntityList is a collection of owned child entities keyed by identity.
// Iteration follows insertion order.
//
// An entity must not be added to more than one EntityList. This is the caller's obligation
// and is not enforced.
type EntityList[T Member] struct {
	order   []uuid.UUID
	members map[uuid.UUID]T
}

// NewEntityList creates an empty EntityList.
func NewEntityList[T Member]() *EntityList[T] {
	return &EntityList[T]{
		order:   make([]uuid.UUID, 0),
		members: make(map[uuid.UUID]T),
	}
}

// Add inserts entity keyed by its identity.
func (l *EntityList[T]) Add(entity T) error {
	if isNil(entity) {
		return ErrNilEntity
	}

	id := entity.ID()
	if id == uuid.Nil {
		return ErrMissingIdentity
	}

	if _, ok := l.members[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, id)
	}

	if l.members == nil {
		l.members = make(map[uuid.UUID]T)
	}

	l.members[id] = entity
	l.order = append(l.order, id)

	return nil
}

// Get returns the entity with the given identity or ErrEntityNotFound.
func (l *EntityList[T]) Get(id uuid.UUID) (T, error) {
	entity, ok := l.members[id]
	if !ok {
		var empty T
		return empty, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}

	return entity, nil
}

// Contains reports whether an entity with the given identity is in the list.
func (l *EntityList[T]) Contains(id uuid.UUID) bool {
	_, ok := l.members[id]
	return ok
}

// Len returns the number of entities.
func (l *EntityList[T]) Len() int {
	return len(l.order)
}

// IDs returns the identities in insertion order.
func (l *EntityList[T]) IDs() []uuid.UUID {
	return slices.Clone(l.order)
}

// All yields the entities in insertion order.
func (l *EntityList[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, id := range l.order {
			if !yield(l.members[id]) {
				return
			}
		}
	}
}

// AllOwnedEntities flattens the subtree of every member in insertion order.
func (l *EntityList[T]) AllOwnedEntities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for member := range l.All() {
			for owned := range member.AllOwnedEntities() {
				if !yield(owned) {
					return
				}
			}
		}
	}
}

func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
