package mailing

import "errors"

var (
	// ErrAlreadyCreated is returned when an account is created twice.
	ErrAlreadyCreated = errors.New("account is already created")

	// ErrNotCreated is returned when an account is used before it was created.
	ErrNotCreated = errors.New("account is not created")

	// ErrMemberAlreadyAdded is returned when the same address is added to an account twice.
	ErrMemberAlreadyAdded = errors.New("account member is already added")
)
