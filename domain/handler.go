package domain

import "fmt"

// EventHandler performs the state change for exactly one event type on exactly one entity.
//
// It must verify that it received the event type it was registered for and returns
// ErrDispatchMismatch otherwise. It must not reject a valid event: the fact has already happened.
type EventHandler interface {
	Handle(event Event) error
}

// HandlerFunc adapts a typed function to the EventHandler interface.
// The function is a closure over the entity it mutates, which binds the handler to that instance.
type HandlerFunc[E Event] func(event E) error

// Handle asserts the concrete event type and calls the function.
func (f HandlerFunc[E]) Handle(event Event) error {
	typed, ok := event.(E)
	if !ok {
		var want E
		return fmt.Errorf("%w: want %T, got %T", ErrDispatchMismatch, want, event)
	}

	return f(typed)
}

// On registers fn as the handler for events of type E on entity.
// The event type string is taken from E itself, so it cannot drift from the event definition.
// Call it while constructing the entity, before any event of type E is applied.
func On[E Event](entity *Entity, fn func(event E) error) {
	var zero E
	entity.RegisterHandler(zero.EventType(), HandlerFunc[E](fn))
}
