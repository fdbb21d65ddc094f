package company

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// EmployeeHiredEventType is the event type identifier.
const EmployeeHiredEventType = "EmployeeHired"

// EmployeeHired records a hire. It targets the company and creates the employee entity.
type EmployeeHired struct {
	CompanyID  uuid.UUID
	EmployeeID uuid.UUID
	Name       string
	Title      string
	OccurredAt time.Time
}

// BuildEmployeeHired creates a new, valid EmployeeHired event.
func BuildEmployeeHired(
	companyID uuid.UUID,
	employeeID uuid.UUID,
	name string,
	title string,
	occurredAt time.Time,
) (EmployeeHired, error) {
	event := EmployeeHired{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Name:       name,
		Title:      title,
		OccurredAt: domain.ToOccurredAt(occurredAt),
	}

	return event, event.Validate()
}

// EventType returns the event type identifier.
func (e EmployeeHired) EventType() string {
	return EmployeeHiredEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e EmployeeHired) TargetID() uuid.UUID {
	return e.CompanyID
}

// HasOccurredAt returns when this event occurred.
func (e EmployeeHired) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e EmployeeHired) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("CompanyID", e.CompanyID),
		domain.RequireIdentity("EmployeeID", e.EmployeeID),
		domain.RequireNonEmpty("Name", e.Name),
		domain.RequireNonEmpty("Title", e.Title),
		domain.RequireOccurredAt("OccurredAt", e.OccurredAt),
	)
}
