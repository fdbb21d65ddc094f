package company

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// Employee is owned by a Company. It is created by EmployeeHired, never directly.
type Employee struct {
	domain.Entity

	Name  string
	Title string

	clock func() time.Time
}

func newEmployee(id uuid.UUID, name string, title string, clock func() time.Time) (*Employee, error) {
	e := &Employee{Name: name, Title: title, clock: clock}
	if err := e.AssignIdentity(id); err != nil {
		return nil, err
	}

	domain.On(&e.Entity, e.whenPromoted)

	return e, nil
}

// Promote gives the employee a new title.
func (e *Employee) Promote(command PromoteEmployee) error {
	if err := command.Validate(); err != nil {
		return err
	}

	event, err := BuildEmployeePromoted(e.ID(), command.Title, e.clock())
	if err != nil {
		return err
	}

	return e.Apply(event)
}

func (e *Employee) whenPromoted(event EmployeePromoted) error {
	e.Title = event.Title
	return nil
}
