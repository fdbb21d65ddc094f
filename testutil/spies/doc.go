// Package spies provides recording test doubles for the eventstore observability interfaces
// and a slog.Handler that captures log records.
package spies
