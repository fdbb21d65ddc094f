package company

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// EmployeePromotedEventType is the event type identifier.
const EmployeePromotedEventType = "EmployeePromoted"

// EmployeePromoted records a new title. It targets the employee.
type EmployeePromoted struct {
	EmployeeID uuid.UUID
	Title      string
	OccurredAt time.Time
}

// BuildEmployeePromoted creates a new, valid EmployeePromoted event.
func BuildEmployeePromoted(employeeID uuid.UUID, title string, occurredAt time.Time) (EmployeePromoted, error) {
	event := EmployeePromoted{
		EmployeeID: employeeID,
		Title:      title,
		OccurredAt: domain.ToOccurredAt(occurredAt),
	}

	return event, event.Validate()
}

// EventType returns the event type identifier.
func (e EmployeePromoted) EventType() string {
	return EmployeePromotedEventType
}

// TargetID returns the identity of the entity this event is applied to.
func (e EmployeePromoted) TargetID() uuid.UUID {
	return e.EmployeeID
}

// HasOccurredAt returns when this event occurred.
func (e EmployeePromoted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Validate checks the required fields of the event.
func (e EmployeePromoted) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("EmployeeID", e.EmployeeID),
		domain.RequireNonEmpty("Title", e.Title),
		domain.RequireOccurredAt("OccurredAt", e.OccurredAt),
	)
}
