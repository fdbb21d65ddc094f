// Package domain provides the building blocks for event-sourced domain models.
//
// State is never mutated directly. An entity method validates business invariants,
// builds an Event and applies it; the registered handler performs the state change and
// the event is staged until the EventStore persists it. Replaying the persisted events in
// order from a blank instance reconstructs the same state.
//
// Key types:
//   - Event / Command: immutable, validated value objects
//   - EventHandler / HandlerFunc: typed state mutations bound to one entity
//   - Entity: identity, version, staged events and handler table
//   - EntityList: insertion-ordered collection of owned child entities
//   - AggregateRoot: the entity addressed by the repository for load and save
//
// Typical usage:
//
//	type Company struct {
//		domain.AggregateRoot
//		Name      string
//		Employees *domain.EntityList[*Employee]
//	}
//
//	func NewCompany() *Company {
//		c := &Company{Employees: domain.NewEntityList[*Employee]()}
//		c.Owns(c.Employees)
//		domain.On(&c.Entity, c.whenFounded)
//		return c
//	}
package domain
