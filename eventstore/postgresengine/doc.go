// Package postgresengine provides a PostgreSQL implementation of eventstore.Engine.
//
// All entity streams live in one table, keyed by (stream_id, stream_version). Appends are a single
// INSERT ... SELECT guarded by a CTE which checks that the stream still has the expected length,
// backed by a unique index, so a concurrent writer surfaces as eventstore.ErrConcurrencyConflict.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Optional read replica, used for contexts marked with eventstore.WithEventualConsistency
//   - Atomic multi-event appends per stream
//   - Configurable table name, logging, metrics and tracing
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	engine, _ := postgresengine.NewEventStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("company_events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = engine.EnsureSchema(ctx)
//
//	events, _ := engine.ReadStream(ctx, companyID, 0)
//	err := engine.AppendToStream(ctx, companyID, uint(len(events)), newEvent)
package postgresengine
