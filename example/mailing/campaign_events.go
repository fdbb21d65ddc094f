package mailing

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// Event type identifiers of the campaign events.
const (
	CampaignNameChangedEventType = "CampaignNameChanged"
	CampaignMailingSentEventType = "CampaignMailingSent"
)

// CampaignNameChanged targets the campaign.
type CampaignNameChanged struct {
	CampaignID uuid.UUID
	Name       string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e CampaignNameChanged) EventType() string {
	return CampaignNameChangedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e CampaignNameChanged) TargetID() uuid.UUID {
	return e.CampaignID
}

// HasOccurredAt returns when this event occurred.
func (e CampaignNameChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e CampaignNameChanged) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("CampaignID", e.CampaignID),
		domain.RequireNonEmpty("Name", e.Name),
	)
}

// CampaignMailingSent targets the campaign and creates the mailing entity.
type CampaignMailingSent struct {
	CampaignID uuid.UUID
	MailingID  uuid.UUID
	Name       string
	OccurredAt time.Time
}

// EventType returns the event type identifier.
func (e CampaignMailingSent) EventType() string {
	return CampaignMailingSentEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e CampaignMailingSent) TargetID() uuid.UUID {
	return e.CampaignID
}

// HasOccurredAt returns when this event occurred.
func (e CampaignMailingSent) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e CampaignMailingSent) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("CampaignID", e.CampaignID),
		domain.RequireIdentity("MailingID", e.MailingID),
		domain.RequireNonEmpty("Name", e.Name),
	)
}
