package mailing

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
)

type validEvent interface {
	domain.Event
	domain.Validator
}

// applyValid validates event before applying it, so an invalid event is never staged.
func applyValid(entity *domain.Entity, event validEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	return entity.Apply(event)
}

// Account is the aggregate root of the mailing tracker.
type Account struct {
	domain.AggregateRoot

	Name      string
	Members   []string
	Campaigns *domain.EntityList[*Campaign]

	clock func() time.Time
}

// NewAccount creates a blank Account, ready to be created or replayed.
func NewAccount() *Account {
	a := &Account{
		Members:   make([]string, 0),
		Campaigns: domain.NewEntityList[*Campaign](),
		clock:     time.Now,
	}

	a.Owns(a.Campaigns)
	domain.On(&a.Entity, a.whenCreated)
	domain.On(&a.Entity, a.whenNameChanged)
	domain.On(&a.Entity, a.whenMemberAdded)
	domain.On(&a.Entity, a.whenCampaignAdded)

	return a
}

// RegisterEvents registers every mailing event type.
func RegisterEvents(registry *shell.EventRegistry) {
	shell.RegisterEvent[AccountCreated](registry)
	shell.RegisterEvent[AccountNameChanged](registry)
	shell.RegisterEvent[AccountMemberAdded](registry)
	shell.RegisterEvent[AccountCampaignAdded](registry)
	shell.RegisterEvent[CampaignNameChanged](registry)
	shell.RegisterEvent[CampaignMailingSent](registry)
	shell.RegisterEvent[MailingOpened](registry)
	shell.RegisterEvent[MailingClicked](registry)
	shell.RegisterEvent[MailingShared](registry)
}

// IsCreated reports whether AccountCreated was applied.
func (a *Account) IsCreated() bool {
	return a.HasIdentity()
}

// Create creates the account under a new identity.
func (a *Account) Create(command CreateAccount) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if a.IsCreated() {
		return ErrAlreadyCreated
	}

	return applyValid(&a.Entity, AccountCreated{
		AccountID:  domain.NewIdentity(),
		Name:       command.Name,
		OccurredAt: domain.ToOccurredAt(a.clock()),
	})
}

// ChangeName renames the account.
func (a *Account) ChangeName(command ChangeAccountName) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if !a.IsCreated() {
		return ErrNotCreated
	}

	return applyValid(&a.Entity, AccountNameChanged{
		AccountID:  a.ID(),
		Name:       command.Name,
		OccurredAt: domain.ToOccurredAt(a.clock()),
	})
}

// AddMember adds a member address. Each address can be added once.
func (a *Account) AddMember(command AddAccountMember) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if !a.IsCreated() {
		return ErrNotCreated
	}

	if slices.Contains(a.Members, command.Address) {
		return ErrMemberAlreadyAdded
	}

	return applyValid(&a.Entity, AccountMemberAdded{
		AccountID:  a.ID(),
		Address:    command.Address,
		OccurredAt: domain.ToOccurredAt(a.clock()),
	})
}

// AddCampaign starts a new campaign and returns its identity.
func (a *Account) AddCampaign(command AddAccountCampaign) (uuid.UUID, error) {
	if err := command.Validate(); err != nil {
		return uuid.Nil, err
	}

	if !a.IsCreated() {
		return uuid.Nil, ErrNotCreated
	}

	campaignID := domain.NewIdentity()

	err := applyValid(&a.Entity, AccountCampaignAdded{
		AccountID:  a.ID(),
		CampaignID: campaignID,
		Name:       command.Name,
		OccurredAt: domain.ToOccurredAt(a.clock()),
	})
	if err != nil {
		return uuid.Nil, err
	}

	return campaignID, nil
}

// Campaign returns the campaign with the given identity.
func (a *Account) Campaign(id uuid.UUID) (*Campaign, error) {
	return a.Campaigns.Get(id)
}

func (a *Account) whenCreated(event AccountCreated) error {
	if err := a.AssignIdentity(event.AccountID); err != nil {
		return err
	}

	a.Name = event.Name

	return nil
}

func (a *Account) whenNameChanged(event AccountNameChanged) error {
	a.Name = event.Name
	return nil
}

func (a *Account) whenMemberAdded(event AccountMemberAdded) error {
	a.Members = append(a.Members, event.Address)
	return nil
}

func (a *Account) whenCampaignAdded(event AccountCampaignAdded) error {
	campaign, err := newCampaign(event.CampaignID, event.Name, a.clock)
	if err != nil {
		return err
	}

	return a.Campaigns.Add(campaign)
}
