package mailing

import (
	"slices"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// Mailing is owned by a Campaign.
//
// Engaged holds every address that opened, clicked or shared the mailing, once, in order of first engagement.
// The counters count every engagement, repeated ones included.
type Mailing struct {
	domain.Entity

	Name    string
	Engaged []string
	Opens   int
	Clicks  int
	Shares  int
}

func newMailing(id uuid.UUID, name string) (*Mailing, error) {
	m := &Mailing{Name: name, Engaged: make([]string, 0)}
	if err := m.AssignIdentity(id); err != nil {
		return nil, err
	}

	domain.On(&m.Entity, m.whenOpened)
	domain.On(&m.Entity, m.whenClicked)
	domain.On(&m.Entity, m.whenShared)

	return m, nil
}

// Open records that an address opened the mailing.
func (m *Mailing) Open(command OpenMailing) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return applyValid(&m.Entity, MailingOpened{
		MailingID:  m.ID(),
		Address:    command.Address,
		OccurredAt: domain.ToOccurredAt(command.At),
	})
}

// Click records that an address clicked a link in the mailing.
func (m *Mailing) Click(command ClickMailing) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return applyValid(&m.Entity, MailingClicked{
		MailingID:  m.ID(),
		Address:    command.Address,
		OccurredAt: domain.ToOccurredAt(command.At),
	})
}

// Share records that an address shared the mailing.
func (m *Mailing) Share(command ShareMailing) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return applyValid(&m.Entity, MailingShared{
		MailingID:  m.ID(),
		Address:    command.Address,
		OccurredAt: domain.ToOccurredAt(command.At),
	})
}

// HasEngaged reports whether address engaged with the mailing in any way.
func (m *Mailing) HasEngaged(address string) bool {
	return slices.Contains(m.Engaged, address)
}

func (m *Mailing) whenOpened(event MailingOpened) error {
	m.Opens++
	m.engage(event.Address)

	return nil
}

func (m *Mailing) whenClicked(event MailingClicked) error {
	m.Clicks++
	m.engage(event.Address)

	return nil
}

func (m *Mailing) whenShared(event MailingShared) error {
	m.Shares++
	m.engage(event.Address)

	return nil
}

func (m *Mailing) engage(address string) {
	if !m.HasEngaged(address) {
		m.Engaged = append(m.Engaged, address)
	}
}
