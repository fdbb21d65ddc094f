package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validate joins all failed checks into one error wrapping ErrValidationFailed.
// It returns nil if every check passed.
//
//	return domain.Validate(
//		domain.RequireIdentity("CompanyID", e.CompanyID),
//		domain.RequireNonEmpty("Name", e.Name),
//	)
func Validate(checks ...error) error {
	failed := make([]error, 0, len(checks))

	for _, check := range checks {
		if check != nil {
			failed = append(failed, check)
		}
	}

	if len(failed) == 0 {
		return nil
	}

	return errors.Join(append([]error{ErrValidationFailed}, failed...)...)
}

// RequireIdentity fails if id is the nil UUID.
func RequireIdentity(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%s: identity is required", field)
	}

	return nil
}

// RequireNonEmpty fails if value is empty or only whitespace.
func RequireNonEmpty(field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s: must not be empty", field)
	}

	return nil
}

// RequireOccurredAt fails if t is the zero time.
func RequireOccurredAt(field string, t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%s: must not be zero", field)
	}

	return nil
}
