// Package adapters provide database adapter implementations for the PostgreSQL stream engine.
//
// pgx.Pool, sql.DB and sqlx.DB are wrapped behind one DBAdapter interface. Every adapter can
// carry an optional replica which serves reads marked with eventstore.WithEventualConsistency.
package adapters
