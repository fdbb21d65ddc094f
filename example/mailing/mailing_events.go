package mailing

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// Event type identifiers of the engagement events.
const (
	MailingOpenedEventType  = "MailingOpened"
	MailingClickedEventType = "MailingClicked"
	MailingSharedEventType  = "MailingShared"
)

// MailingOpened records an address opening the mailing. It targets the mailing.
// OccurredAt is when the address engaged, not when the event was recorded.
type MailingOpened struct {
	MailingID  uuid.UUID
	Address    string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e MailingOpened) EventType() string {
	return MailingOpenedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e MailingOpened) TargetID() uuid.UUID {
	return e.MailingID
}

// HasOccurredAt returns when this event occurred.
func (e MailingOpened) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e MailingOpened) Validate() error {
	return validateEngaged(e.MailingID, e.Address, e.OccurredAt)
}

// MailingClicked records an address clicking a link in the mailing. It targets the mailing.
// OccurredAt is when the address engaged, not when the event was recorded.
type MailingClicked struct {
	MailingID  uuid.UUID
	Address    string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e MailingClicked) EventType() string {
	return MailingClickedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e MailingClicked) TargetID() uuid.UUID {
	return e.MailingID
}

// HasOccurredAt returns when this event occurred.
func (e MailingClicked) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e MailingClicked) Validate() error {
	return validateEngaged(e.MailingID, e.Address, e.OccurredAt)
}

// MailingShared records an address sharing the mailing. It targets the mailing.
// OccurredAt is when the address engaged, not when the event was recorded.
type MailingShared struct {
	MailingID  uuid.UUID
	Address    string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e MailingShared) EventType() string {
	return MailingSharedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e MailingShared) TargetID() uuid.UUID {
	return e.MailingID
}

// HasOccurredAt returns when this event occurred.
func (e MailingShared) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e MailingShared) Validate() error {
	return validateEngaged(e.MailingID, e.Address, e.OccurredAt)
}

func validateEngaged(mailingID uuid.UUID, address string, occurredAt time.Time) error {
	return domain.Validate(
		domain.RequireIdentity("MailingID", mailingID),
		domain.RequireNonEmpty("Address", address),
		domain.RequireOccurredAt("OccurredAt", occurredAt),
	)
}
