// Package shell is the imperative shell around the domain kernel.
//
// It translates between domain events and eventstore.StorableEvent (EventRegistry, EventMetadata),
// persists aggregates entity by entity (EventStore), loads and saves whole aggregates (Repository),
// publishes committed events (EventRouter) and retries optimistic concurrency conflicts
// (RetryWithExponentialBackoff).
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
