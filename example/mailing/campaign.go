package mailing

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// Campaign is owned by an Account and owns the Mailings it sent.
type Campaign struct {
	domain.Entity

	Name     string
	Mailings *domain.EntityList[*Mailing]

	clock func() time.Time
}

func newCampaign(id uuid.UUID, name string, clock func() time.Time) (*Campaign, error) {
	c := &Campaign{Name: name, Mailings: domain.NewEntityList[*Mailing](), clock: clock}
	if err := c.AssignIdentity(id); err != nil {
		return nil, err
	}

	c.Owns(c.Mailings)
	domain.On(&c.Entity, c.whenNameChanged)
	domain.On(&c.Entity, c.whenMailingSent)

	return c, nil
}

// ChangeName renames the campaign.
func (c *Campaign) ChangeName(command ChangeCampaignName) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return applyValid(&c.Entity, CampaignNameChanged{
		CampaignID: c.ID(),
		Name:       command.Name,
		OccurredAt: domain.ToOccurredAt(c.clock()),
	})
}

// SendMailing sends a new mailing and returns its identity.
func (c *Campaign) SendMailing(command SendCampaignMailing) (uuid.UUID, error) {
	if err := command.Validate(); err != nil {
		return uuid.Nil, err
	}

	mailingID := domain.NewIdentity()

	err := applyValid(&c.Entity, CampaignMailingSent{
		CampaignID: c.ID(),
		MailingID:  mailingID,
		Name:       command.Name,
		OccurredAt: domain.ToOccurredAt(c.clock()),
	})
	if err != nil {
		return uuid.Nil, err
	}

	return mailingID, nil
}

// Mailing returns the mailing with the given identity.
func (c *Campaign) Mailing(id uuid.UUID) (*Mailing, error) {
	return c.Mailings.Get(id)
}

func (c *Campaign) whenNameChanged(event CampaignNameChanged) error {
	c.Name = event.Name
	return nil
}

func (c *Campaign) whenMailingSent(event CampaignMailingSent) error {
	sent, err := newMailing(event.MailingID, event.Name)
	if err != nil {
		return err
	}

	return c.Mailings.Add(sent)
}
