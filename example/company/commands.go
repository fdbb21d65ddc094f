package company

import (
	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

const (
	foundCompanyCommandType    = "FoundCompany"
	hireEmployeeCommandType    = "HireEmployee"
	promoteEmployeeCommandType = "PromoteEmployee"
)

// FoundCompany is the intent to found a new company.
type FoundCompany struct {
	Name string
}

// BuildFoundCompany creates a valid FoundCompany command.
func BuildFoundCompany(name string) (FoundCompany, error) {
	command := FoundCompany{Name: name}

	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c FoundCompany) CommandType() string {
	return foundCompanyCommandType
}

// Validate checks the required fields of the command.
func (c FoundCompany) Validate() error {
	return domain.Validate(domain.RequireNonEmpty("Name", c.Name))
}

// HireEmployee is the intent to hire someone into a company.
type HireEmployee struct {
	Name  string
	Title string
}

// BuildHireEmployee creates a valid HireEmployee command.
func BuildHireEmployee(name string, title string) (HireEmployee, error) {
	command := HireEmployee{Name: name, Title: title}

	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c HireEmployee) CommandType() string {
	return hireEmployeeCommandType
}

// Validate checks the required fields of the command.
func (c HireEmployee) Validate() error {
	return domain.Validate(
		domain.RequireNonEmpty("Name", c.Name),
		domain.RequireNonEmpty("Title", c.Title),
	)
}

// PromoteEmployee is the intent to give an employee a new title.
type PromoteEmployee struct {
	Title string
}

// BuildPromoteEmployee creates a valid PromoteEmployee command.
func BuildPromoteEmployee(title string) (PromoteEmployee, error) {
	command := PromoteEmployee{Title: title}

	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c PromoteEmployee) CommandType() string {
	return promoteEmployeeCommandType
}

// Validate checks the required fields of the command.
func (c PromoteEmployee) Validate() error {
	return domain.Validate(domain.RequireNonEmpty("Title", c.Title))
}

var (
	_ domain.Command = FoundCompany{}
	_ domain.Command = HireEmployee{}
	_ domain.Command = PromoteEmployee{}
)
