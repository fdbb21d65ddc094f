package eventstore

import "context"

// ConsistencyLevel selects whether a read may be served from a replica.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Loading an aggregate to decide on a command needs it,
	// the compare-and-append check would fail on stale input anyway. It is the default.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica. Suitable for read models and reporting.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key under which the requested ConsistencyLevel is stored.
const ConsistencyLevelKey contextKey = "eventstore.consistency_level"

// WithStrongConsistency marks ctx so engines read from the primary.
//
//	ctx = eventstore.WithStrongConsistency(ctx)
//	events, err := engine.ReadStream(ctx, entityID, 0)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency marks ctx so engines with a configured replica may read from it.
//
//	ctx = eventstore.WithEventualConsistency(ctx)
//	events, err := engine.ReadStream(ctx, entityID, 0)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel returns the level stored in ctx, StrongConsistency if none is set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
