package domain

import (
	"time"

	"github.com/google/uuid"
)

// Events is an alias type for a slice of Event.
type Events = []Event

// Event is a fact that has already happened in the domain.
//
// An Event can never be rejected once it is applied. Rejection happens in the entity method
// before the event is built, never inside a handler.
//
// Concrete events are value structs constructed with a validating BuildXxx factory.
type Event interface {
	// EventType returns the string identifier for this event type.
	EventType() string

	// TargetID returns the identity of the entity this event targets.
	TargetID() uuid.UUID

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time
}

// Command is the intent of a client. It may be rejected by the domain and has no historical weight.
//
// Concrete commands are value structs constructed with a validating BuildXxx factory.
type Command interface {
	CommandType() string
}

// Validator is implemented by events and commands that can check their own fields.
type Validator interface {
	Validate() error
}

// ToOccurredAt normalizes a time to UTC with microsecond precision, the precision every store keeps.
func ToOccurredAt(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
