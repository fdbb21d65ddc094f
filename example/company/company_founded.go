package company

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// CompanyFoundedEventType is the event type identifier.
const CompanyFoundedEventType = "CompanyFounded"

// CompanyFounded records that a company was founded. It carries the company's identity.
type CompanyFounded struct {
	CompanyID  uuid.UUID
	Name       string
	OccurredAt time.Time
}

// BuildCompanyFounded creates a new, valid CompanyFounded event.
func BuildCompanyFounded(companyID uuid.UUID, name string, occurredAt time.Time) (CompanyFounded, error) {
	event := CompanyFounded{
		CompanyID:  companyID,
		Name:       name,
		OccurredAt: domain.ToOccurredAt(occurredAt),
	}

	return event, event.Validate()
}

// EventType returns the event type identifier.
func (e CompanyFounded) EventType() string {
	return CompanyFoundedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e CompanyFounded) TargetID() uuid.UUID {
	return e.CompanyID
}

// HasOccurredAt returns when this event occurred.
func (e CompanyFounded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e CompanyFounded) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("CompanyID", e.CompanyID),
		domain.RequireNonEmpty("Name", e.Name),
		domain.RequireOccurredAt("OccurredAt", e.OccurredAt),
	)
}
