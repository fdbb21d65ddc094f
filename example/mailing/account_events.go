package mailing

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// Event type identifiers of the account events.
const (
	AccountCreatedEventType       = "AccountCreated"
	AccountNameChangedEventType   = "AccountNameChanged"
	AccountMemberAddedEventType   = "AccountMemberAdded"
	AccountCampaignAddedEventType = "AccountCampaignAdded"
)

// AccountCreated carries the identity of a new account.
type AccountCreated struct {
	AccountID  uuid.UUID
	Name       string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e AccountCreated) EventType() string {
	return AccountCreatedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e AccountCreated) TargetID() uuid.UUID {
	return e.AccountID
}

// HasOccurredAt returns when this event occurred.
func (e AccountCreated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e AccountCreated) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("AccountID", e.AccountID),
		domain.RequireNonEmpty("Name", e.Name),
		domain.RequireOccurredAt("OccurredAt", e.OccurredAt),
	)
}

// AccountNameChanged targets the account.
type AccountNameChanged struct {
	AccountID  uuid.UUID
	Name       string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e AccountNameChanged) EventType() string {
	return AccountNameChangedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e AccountNameChanged) TargetID() uuid.UUID {
	return e.AccountID
}

// HasOccurredAt returns when this event occurred.
func (e AccountNameChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e AccountNameChanged) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("AccountID", e.AccountID),
		domain.RequireNonEmpty("Name", e.Name),
	)
}

// AccountMemberAdded records a member address joining the account.
type AccountMemberAdded struct {
	AccountID  uuid.UUID
	Address    string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e AccountMemberAdded) EventType() string {
	return AccountMemberAddedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e AccountMemberAdded) TargetID() uuid.UUID {
	return e.AccountID
}

// HasOccurredAt returns when this event occurred.
func (e AccountMemberAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e AccountMemberAdded) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("AccountID", e.AccountID),
		domain.RequireNonEmpty("Address", e.Address),
	)
}

// AccountCampaignAdded targets the account and creates the campaign entity.
type AccountCampaignAdded struct {
	AccountID  uuid.UUID
	CampaignID uuid.UUID
	Name       string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e AccountCampaignAdded) EventType() string {
	return AccountCampaignAddedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e AccountCampaignAdded) TargetID() uuid.UUID {
	return e.AccountID
}

// HasOccurredAt returns when this event occurred.
func (e AccountCampaignAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e AccountCampaignAdded) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("AccountID", e.AccountID),
		domain.RequireIdentity("CampaignID", e.CampaignID),
		domain.RequireNonEmpty("Name", e.Name),
	)
}
