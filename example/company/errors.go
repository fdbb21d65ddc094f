package company

import "errors"

var (
	// ErrAlreadyFounded is returned when a company is founded twice.
	ErrAlreadyFounded = errors.New("company is already founded")

	// ErrNotFounded is returned when a company is used before it was founded.
	ErrNotFounded = errors.New("company is not founded")
)
