package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
)

type orderPlaced struct {
	OrderID  uuid.UUID
	Customer string
	At       time.Time
}

func (e orderPlaced) EventType() string        { return "OrderPlaced" }
func (e orderPlaced) TargetID() uuid.UUID      { return e.OrderID }
func (e orderPlaced) HasOccurredAt() time.Time { return e.At }

func (e orderPlaced) Validate() error {
	return domain.Validate(
		domain.RequireIdentity("OrderID", e.OrderID),
		domain.RequireNonEmpty("Customer", e.Customer),
	)
}

type lineAdded struct {
	OrderID uuid.UUID
	LineID  uuid.UUID
	SKU     string
	At      time.Time
}

func (e lineAdded) EventType() string        { return "LineAdded" }
func (e lineAdded) TargetID() uuid.UUID      { return e.OrderID }
func (e lineAdded) HasOccurredAt() time.Time { return e.At }

type quantityChanged struct {
	LineID   uuid.UUID
	Quantity int
	At       time.Time
}

func (e quantityChanged) EventType() string        { return "QuantityChanged" }
func (e quantityChanged) TargetID() uuid.UUID      { return e.LineID }
func (e quantityChanged) HasOccurredAt() time.Time { return e.At }

// notRegistered is never registered with the EventRegistry.
type notRegistered struct {
	ID uuid.UUID
	At time.Time
}

func (e notRegistered) EventType() string        { return "NotRegistered" }
func (e notRegistered) TargetID() uuid.UUID      { return e.ID }
func (e notRegistered) HasOccurredAt() time.Time { return e.At }

type order struct {
	domain.AggregateRoot

	Customer string
	Lines    *domain.EntityList[*line]
}

func newOrder() *order {
	o := &order{Lines: domain.NewEntityList[*line]()}
	o.Owns(o.Lines)
	domain.On(&o.Entity, o.whenPlaced)
	domain.On(&o.Entity, o.whenLineAdded)

	return o
}

func (o *order) place(customer string) error {
	return o.Apply(orderPlaced{OrderID: domain.NewIdentity(), Customer: customer, At: now()})
}

func (o *order) addLine(sku string) (*line, error) {
	lineID := domain.NewIdentity()
	if err := o.Apply(lineAdded{OrderID: o.ID(), LineID: lineID, SKU: sku, At: now()}); err != nil {
		return nil, err
	}

	return o.Lines.Get(lineID)
}

func (o *order) whenPlaced(event orderPlaced) error {
	if err := o.AssignIdentity(event.OrderID); err != nil {
		return err
	}

	o.Customer = event.Customer

	return nil
}

func (o *order) whenLineAdded(event lineAdded) error {
	l, err := newLine(event.LineID, event.SKU)
	if err != nil {
		return err
	}

	return o.Lines.Add(l)
}

type line struct {
	domain.Entity

	SKU      string
	Quantity int
}

func newLine(id uuid.UUID, sku string) (*line, error) {
	l := &line{SKU: sku}
	if err := l.AssignIdentity(id); err != nil {
		return nil, err
	}

	domain.On(&l.Entity, l.whenQuantityChanged)

	return l, nil
}

func (l *line) changeQuantity(quantity int) error {
	return l.Apply(quantityChanged{LineID: l.ID(), Quantity: quantity, At: now()})
}

func (l *line) whenQuantityChanged(event quantityChanged) error {
	l.Quantity = event.Quantity
	return nil
}

func now() time.Time {
	return domain.ToOccurredAt(time.Now())
}

func newRegistry() *shell.EventRegistry {
	registry := shell.NewEventRegistry()
	shell.RegisterEvent[orderPlaced](registry)
	shell.RegisterEvent[lineAdded](registry)
	shell.RegisterEvent[quantityChanged](registry)

	return registry
}

func newStore(t *testing.T) (*shell.EventStore, *memoryengine.EventStore) {
	t.Helper()

	engine, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	store, err := shell.NewEventStore(engine, newRegistry())
	require.NoError(t, err)

	return store, engine
}

// placedOrder returns a saved order with one line whose quantity was changed once.
func placedOrder(t *testing.T, store *shell.EventStore) (*order, *line) {
	t.Helper()

	o := newOrder()
	require.NoError(t, o.place("Hermes"))
	l, err := o.addLine("SKU-1")
	require.NoError(t, err)
	require.NoError(t, l.changeQuantity(3))
	require.NoError(t, store.Save(context.Background(), o))

	return o, l
}

// conflictingEngine fails every append with a concurrency conflict until failures reaches zero.
type conflictingEngine struct {
	eventstore.Engine
	failures int
}

func (e *conflictingEngine) AppendToStream(
	ctx context.Context,
	streamID uuid.UUID,
	expectedVersion eventstore.StreamVersionUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {
	if e.failures > 0 {
		e.failures--
		return eventstore.ErrConcurrencyConflict
	}

	return e.Engine.AppendToStream(ctx, streamID, expectedVersion, event, additionalEvents...)
}
