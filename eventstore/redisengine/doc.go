// Package redisengine provides a Redis implementation of eventstore.Engine.
//
// Each stream is one Redis list under "<prefix><stream id>". Every list element is a JSON record
// of one event, and the element's one-based index is its stream version.
//
// Appends are optimistic: the key is WATCHed, its length compared with the expected version, and
// the events pushed in a MULTI/EXEC block. A concurrent write to the key aborts the transaction,
// which is reported as eventstore.ErrConcurrencyConflict.
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	engine, err := redisengine.NewEventStore(client, redisengine.WithKeyPrefix("planetexpress:stream:"))
package redisengine
