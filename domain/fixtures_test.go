package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

var errHandlerFailed = errors.New("handler failed")

type nameSet struct {
	ID   uuid.UUID
	Name string
	At   time.Time
}

func (e nameSet) EventType() string        { return "NameSet" }
func (e nameSet) TargetID() uuid.UUID      { return e.ID }
func (e nameSet) HasOccurredAt() time.Time { return e.At }

type childAdded struct {
	ID      uuid.UUID
	ChildID uuid.UUID
	At      time.Time
}

func (e childAdded) EventType() string        { return "ChildAdded" }
func (e childAdded) TargetID() uuid.UUID      { return e.ID }
func (e childAdded) HasOccurredAt() time.Time { return e.At }

type noteAdded struct {
	ID   uuid.UUID
	Note string
	At   time.Time
}

func (e noteAdded) EventType() string        { return "NoteAdded" }
func (e noteAdded) TargetID() uuid.UUID      { return e.ID }
func (e noteAdded) HasOccurredAt() time.Time { return e.At }

type unrelated struct {
	ID uuid.UUID
	At time.Time
}

func (e unrelated) EventType() string        { return "Unrelated" }
func (e unrelated) TargetID() uuid.UUID      { return e.ID }
func (e unrelated) HasOccurredAt() time.Time { return e.At }

type parent struct {
	domain.AggregateRoot

	Name     string
	Children *domain.EntityList[*child]
}

func newParent() *parent {
	p := &parent{Children: domain.NewEntityList[*child]()}
	p.Owns(p.Children)
	domain.On(&p.Entity, p.whenNameSet)
	domain.On(&p.Entity, p.whenChildAdded)

	return p
}

func (p *parent) whenNameSet(event nameSet) error {
	if err := p.AssignIdentity(event.ID); err != nil {
		return err
	}

	p.Name = event.Name

	return nil
}

func (p *parent) whenChildAdded(event childAdded) error {
	c, err := newChild(event.ChildID)
	if err != nil {
		return err
	}

	return p.Children.Add(c)
}

type child struct {
	domain.Entity

	Notes         []string
	Grandchildren *domain.EntityList[*child]
}

func newChild(id uuid.UUID) (*child, error) {
	c := &child{Grandchildren: domain.NewEntityList[*child]()}
	if err := c.AssignIdentity(id); err != nil {
		return nil, err
	}

	c.Owns(c.Grandchildren)
	domain.On(&c.Entity, c.whenNoteAdded)
	domain.On(&c.Entity, c.whenChildAdded)

	return c, nil
}

func mustNewChild(t *testing.T, id uuid.UUID) *child {
	t.Helper()

	c, err := newChild(id)
	require.NoError(t, err)

	return c
}

func (c *child) whenNoteAdded(event noteAdded) error {
	c.Notes = append(c.Notes, event.Note)
	return nil
}

func (c *child) whenChildAdded(event childAdded) error {
	grandchild, err := newChild(event.ChildID)
	if err != nil {
		return err
	}

	return c.Grandchildren.Add(grandchild)
}

type memberJoined struct {
	ID       uuid.UUID
	MemberID uuid.UUID
	At       time.Time
}

func (e memberJoined) EventType() string        { return "MemberJoined" }
func (e memberJoined) TargetID() uuid.UUID      { return e.ID }
func (e memberJoined) HasOccurredAt() time.Time { return e.At }

// team owns two lists and a single entity, declared in that order.
type team struct {
	domain.AggregateRoot

	Leads   *domain.EntityList[*child]
	Members *domain.EntityList[*child]
	Mascot  *child
}

func newTeam(t *testing.T, mascotID uuid.UUID) *team {
	t.Helper()

	tm := &team{
		Leads:   domain.NewEntityList[*child](),
		Members: domain.NewEntityList[*child](),
		Mascot:  mustNewChild(t, mascotID),
	}
	tm.Owns(tm.Leads, tm.Members, tm.Mascot)
	domain.On(&tm.Entity, tm.whenNameSet)
	domain.On(&tm.Entity, tm.whenLeadAdded)
	domain.On(&tm.Entity, tm.whenMemberJoined)

	return tm
}

func (tm *team) whenNameSet(event nameSet) error {
	return tm.AssignIdentity(event.ID)
}

func (tm *team) whenLeadAdded(event childAdded) error {
	c, err := newChild(event.ChildID)
	if err != nil {
		return err
	}

	return tm.Leads.Add(c)
}

func (tm *team) whenMemberJoined(event memberJoined) error {
	c, err := newChild(event.MemberID)
	if err != nil {
		return err
	}

	return tm.Members.Add(c)
}

func now() time.Time {
	return domain.ToOccurredAt(time.Now())
}
