// Package memoryengine provides an in-memory implementation of eventstore.Engine.
//
// All streams live in a map guarded by a mutex, so every append is serialized and the
// compare-and-append check is exact. Appended events are copied on the way in and on the way out,
// so callers can never alias stored state.
//
// It is the reference engine for tests and the demo. Nothing survives the process.
//
//	engine, _ := memoryengine.NewEventStore(
//		memoryengine.WithLogger(slog.Default()),
//	)
//
//	err := engine.AppendToStream(ctx, entityID, 0, storableEvent)
//	events, err := engine.ReadStream(ctx, entityID, 0)
package memoryengine
