package mailing

import (
	"time"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// CreateAccount is the intent to create an account.
type CreateAccount struct {
	Name string
}

// BuildCreateAccount creates a valid CreateAccount command.
func BuildCreateAccount(name string) (CreateAccount, error) {
	command := CreateAccount{Name: name}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c CreateAccount) CommandType() string { return "CreateAccount" }

// Validate checks the required fields of the command.
func (c CreateAccount) Validate() error {
	return domain.Validate(domain.RequireNonEmpty("Name", c.Name))
}

// ChangeAccountName is the intent to rename an account.
type ChangeAccountName struct {
	Name string
}

// BuildChangeAccountName creates a valid ChangeAccountName command.
func BuildChangeAccountName(name string) (ChangeAccountName, error) {
	command := ChangeAccountName{Name: name}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c ChangeAccountName) CommandType() string { return "ChangeAccountName" }

// Validate checks the required fields of the command.
func (c ChangeAccountName) Validate() error {
	return domain.Validate(domain.RequireNonEmpty("Name", c.Name))
}

// AddAccountMember is the intent to add a member address to an account.
type AddAccountMember struct {
	Address string
}

// BuildAddAccountMember creates a valid AddAccountMember command.
func BuildAddAccountMember(address string) (AddAccountMember, error) {
	command := AddAccountMember{Address: address}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c AddAccountMember) CommandType() string { return "AddAccountMember" }

// Validate checks the required fields of the command.
func (c AddAccountMember) Validate() error {
	return domain.Validate(domain.RequireNonEmpty("Address", c.Address))
}

// AddAccountCampaign is the intent to start a new campaign.
type AddAccountCampaign struct {
	Name string
}

// BuildAddAccountCampaign creates a valid AddAccountCampaign command.
func BuildAddAccountCampaign(name string) (AddAccountCampaign, error) {
	command := AddAccountCampaign{Name: name}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c AddAccountCampaign) CommandType() string { return "AddAccountCampaign" }

// Validate checks the required fields of the command.
func (c AddAccountCampaign) Validate() error {
	return domain.Validate(domain.RequireNonEmpty("Name", c.Name))
}

// ChangeCampaignName is the intent to rename a campaign.
type ChangeCampaignName struct {
	Name string
}

// BuildChangeCampaignName creates a valid ChangeCampaignName command.
func BuildChangeCampaignName(name string) (ChangeCampaignName, error) {
	command := ChangeCampaignName{Name: name}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c ChangeCampaignName) CommandType() string { return "ChangeCampaignName" }

// Validate checks the required fields of the command.
func (c ChangeCampaignName) Validate() error {
	return domain.Validate(domain.RequireNonEmpty("Name", c.Name))
}

// SendCampaignMailing is the intent to send a mailing as part of a campaign.
type SendCampaignMailing struct {
	Name string
}

// BuildSendCampaignMailing creates a valid SendCampaignMailing command.
func BuildSendCampaignMailing(name string) (SendCampaignMailing, error) {
	command := SendCampaignMailing{Name: name}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c SendCampaignMailing) CommandType() string { return "SendCampaignMailing" }

// Validate checks the required fields of the command.
func (c SendCampaignMailing) Validate() error {
	return domain.Validate(domain.RequireNonEmpty("Name", c.Name))
}

// Engagement is what OpenMailing, ClickMailing and ShareMailing carry: who engaged and when.
type Engagement struct {
	Address string
	At      time.Time
}

// Validate checks that the address and time are set.
func (e Engagement) Validate() error {
	return domain.Validate(
		domain.RequireNonEmpty("Address", e.Address),
		domain.RequireOccurredAt("At", e.At),
	)
}

// OpenMailing is the intent to record that an address opened a mailing.
type OpenMailing struct {
	Engagement
}

// BuildOpenMailing creates a valid OpenMailing command.
func BuildOpenMailing(address string, at time.Time) (OpenMailing, error) {
	command := OpenMailing{Engagement{Address: address, At: at}}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c OpenMailing) CommandType() string { return "OpenMailing" }

// ClickMailing is the intent to record that an address clicked a link in a mailing.
type ClickMailing struct {
	Engagement
}

// BuildClickMailing creates a valid ClickMailing command.
func BuildClickMailing(address string, at time.Time) (ClickMailing, error) {
	command := ClickMailing{Engagement{Address: address, At: at}}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c ClickMailing) CommandType() string { return "ClickMailing" }

// ShareMailing is the intent to record that an address shared a mailing.
type ShareMailing struct {
	Engagement
}

// BuildShareMailing creates a valid ShareMailing command.
func BuildShareMailing(address string, at time.Time) (ShareMailing, error) {
	command := ShareMailing{Engagement{Address: address, At: at}}
	return command, command.Validate()
}

// CommandType returns the command type identifier.
func (c ShareMailing) CommandType() string { return "ShareMailing" }
