package company

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
)

// Company is the aggregate root. Its Employees are owned entities with their own streams.
type Company struct {
	domain.AggregateRoot

	Name      string
	Employees *domain.EntityList[*Employee]

	clock func() time.Time
}

// New creates a blank Company, ready to be founded or replayed.
func New() *Company {
	c := &Company{
		Employees: domain.NewEntityList[*Employee](),
		clock:     time.Now,
	}

	c.Owns(c.Employees)
	domain.On(&c.Entity, c.whenFounded)
	domain.On(&c.Entity, c.whenEmployeeHired)

	return c
}

// RegisterEvents registers every company event type.
func RegisterEvents(registry *shell.EventRegistry) {
	shell.RegisterEvent[CompanyFounded](registry)
	shell.RegisterEvent[EmployeeHired](registry)
	shell.RegisterEvent[EmployeePromoted](registry)
}

// IsFounded reports whether the company has its identity.
func (c *Company) IsFounded() bool {
	return c.HasIdentity()
}

// Found founds the company under a new identity.
func (c *Company) Found(command FoundCompany) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if c.IsFounded() {
		return ErrAlreadyFounded
	}

	event, err := BuildCompanyFounded(domain.NewIdentity(), command.Name, c.clock())
	if err != nil {
		return err
	}

	return c.Apply(event)
}

// HireEmployee hires a new employee and returns the employee's identity.
func (c *Company) HireEmployee(command HireEmployee) (uuid.UUID, error) {
	if err := command.Validate(); err != nil {
		return uuid.Nil, err
	}

	if !c.IsFounded() {
		return uuid.Nil, ErrNotFounded
	}

	event, err := BuildEmployeeHired(c.ID(), domain.NewIdentity(), command.Name, command.Title, c.clock())
	if err != nil {
		return uuid.Nil, err
	}

	if err = c.Apply(event); err != nil {
		return uuid.Nil, err
	}

	return event.EmployeeID, nil
}

// Employee returns the employee with the given identity.
func (c *Company) Employee(id uuid.UUID) (*Employee, error) {
	return c.Employees.Get(id)
}

func (c *Company) whenFounded(event CompanyFounded) error {
	if err := c.AssignIdentity(event.CompanyID); err != nil {
		return err
	}

	c.Name = event.Name

	return nil
}

func (c *Company) whenEmployeeHired(event EmployeeHired) error {
	employee, err := newEmployee(event.EmployeeID, event.Name, event.Title, c.clock)
	if err != nil {
		return err
	}

	return c.Employees.Add(employee)
}
