// Package eventstore provides the storage-side abstractions for event-sourced entities.
//
// Every entity identity owns one stream. An Engine reads a stream from a version and appends to it
// with a compare-and-append check on the expected stream length. Engines deal only in StorableEvent,
// a scalar DTO, so they stay agnostic of the domain event types.
//
// Key types:
//   - Engine: the stream storage contract (memoryengine, postgresengine, redisengine)
//   - StorableEvent: Represents an event that can be stored and retrieved
//   - StorableEvents: Collection of storable events
//   - Logger, ContextualLogger, MetricsCollector, TracingCollector: dependency-free observability hooks
//
// Common usage pattern:
//
//	events, err := engine.ReadStream(ctx, entityID, 0)
//	if err != nil {
//		// handle error
//	}
//
//	newEvent, err := eventstore.BuildStorableEvent(eventType, time.Now(), payload, metadata)
//	err = engine.AppendToStream(ctx, entityID, eventstore.StreamVersionUint(len(events)), newEvent)
package eventstore
