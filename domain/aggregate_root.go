package domain

import (
	"iter"

	"github.com/google/uuid"
)

// AggregateRoot is an Entity that is the externally addressable transaction boundary.
// It and its owned graph are loaded and saved as one unit.
type AggregateRoot struct {
	Entity
}

func (r *AggregateRoot) aggregateRoot() {}

// Aggregate is implemented by every domain type embedding AggregateRoot.
type Aggregate interface {
	ID() uuid.UUID
	Apply(event Event) error
	AsEntity() *Entity
	AllOwnedEntities() iter.Seq[*Entity]
	AllStagedEvents() iter.Seq[Event]
	aggregateRoot()
}
