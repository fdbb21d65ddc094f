package domain

import "errors"

var (
	// ErrValidationFailed is returned when a Command or Event is constructed with missing or invalid fields.
	ErrValidationFailed = errors.New("validation failed")

	// ErrDispatchMismatch is returned when a handler is invoked with an event of a type it was not registered for.
	ErrDispatchMismatch = errors.New("event handler invoked with an event of the wrong type")

	// ErrNilEvent is returned when a nil event is applied.
	ErrNilEvent = errors.New("event must not be nil")

	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("event handler must not be nil")

	// ErrMissingIdentity is returned when an entity without identity is used where one is required.
	ErrMissingIdentity = errors.New("entity has no identity")

	// ErrIdentityAlreadyAssigned is returned when an entity's identity would be reassigned.
	ErrIdentityAlreadyAssigned = errors.New("entity identity is already assigned")

	// ErrNilEntity is returned when a nil entity is added to an EntityList.
	ErrNilEntity = errors.New("entity must not be nil")

	// ErrDuplicateEntity is returned when an entity with the same identity is already in an EntityList.
	ErrDuplicateEntity = errors.New("entity is already in the list")

	// ErrEntityNotFound is returned when an EntityList has no entity with the requested identity.
	ErrEntityNotFound = errors.New("entity not found")
)
