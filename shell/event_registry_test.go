package shell_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
)

func Test_EventRegistry_RoundTrip(t *testing.T) {
	// arrange
	registry := newRegistry()
	event := orderPlaced{OrderID: uuid.New(), Customer: "Hermes", At: now()}
	metadata := shell.BuildEventMetadata(uuid.New(), uuid.New(), uuid.New())

	// act
	storable, err := registry.StorableEventFrom(event, metadata)
	require.NoError(t, err)
	decoded, err := registry.DomainEventFrom(storable)
	require.NoError(t, err)
	decodedMetadata, err := shell.EventMetadataFrom(storable)
	require.NoError(t, err)

	// assert
	assert.Equal(t, "OrderPlaced", storable.EventType)
	assert.True(t, event.At.Equal(storable.OccurredAt))
	assert.Equal(t, event.OrderID, decoded.(orderPlaced).OrderID)
	assert.Equal(t, event.Customer, decoded.(orderPlaced).Customer)
	assert.True(t, event.At.Equal(decoded.HasOccurredAt()))
	assert.Equal(t, metadata, decodedMetadata)
}

func Test_EventRegistry_When_EncodingUnregisteredEvent_Then_ItFails(t *testing.T) {
	_, err := newRegistry().StorableEventFrom(notRegistered{ID: uuid.New(), At: now()}, shell.EventMetadata{})

	assert.ErrorIs(t, err, shell.ErrMappingToStorableEventFailed)
	assert.ErrorIs(t, err, shell.ErrUnknownEventType)
}

func Test_EventRegistry_When_DecodingUnknownType_Then_ItFails(t *testing.T) {
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata("Unknown", now(), []byte(`{}`))
	require.NoError(t, err)

	_, err = newRegistry().DomainEventFrom(storable)

	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
	assert.ErrorIs(t, err, shell.ErrUnknownEventType)
}

func Test_EventRegistry_When_DecodedEventIsInvalid_Then_ItFails(t *testing.T) {
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata("OrderPlaced", now(), []byte(`{"Customer":"Hermes"}`))
	require.NoError(t, err)

	_, err = newRegistry().DomainEventFrom(storable)

	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func Test_EventRegistry_When_PayloadDoesNotFitType_Then_ItFails(t *testing.T) {
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata("QuantityChanged", now(), []byte(`{"Quantity":"many"}`))
	require.NoError(t, err)

	_, err = newRegistry().DomainEventFrom(storable)

	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
}

func Test_EventRegistry_DomainEventsFrom_KeepsOrder(t *testing.T) {
	registry := newRegistry()
	orderID := uuid.New()
	first, err := registry.StorableEventFrom(orderPlaced{OrderID: orderID, Customer: "Hermes", At: now()}, shell.EventMetadata{})
	require.NoError(t, err)
	second, err := registry.StorableEventFrom(lineAdded{OrderID: orderID, LineID: uuid.New(), SKU: "SKU-1", At: now()}, shell.EventMetadata{})
	require.NoError(t, err)

	events, err := registry.DomainEventsFrom(eventstore.StorableEvents{first, second})

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "OrderPlaced", events[0].EventType())
	assert.Equal(t, "LineAdded", events[1].EventType())
}

func Test_EventRegistry_EventTypes_AreSorted(t *testing.T) {
	registry := newRegistry()

	assert.Equal(t, []string{"LineAdded", "OrderPlaced", "QuantityChanged"}, registry.EventTypes())
	assert.True(t, registry.Knows("LineAdded"))
	assert.False(t, registry.Knows("NotRegistered"))
}

func Test_EventMetadataFrom_When_MetadataIsNotAnObject_Then_ItFails(t *testing.T) {
	storable, err := eventstore.BuildStorableEvent("OrderPlaced", now(), []byte(`{}`), []byte(`[1,2]`))
	require.NoError(t, err)

	_, err = shell.EventMetadataFrom(storable)

	assert.ErrorIs(t, err, shell.ErrMappingToEventMetadataFailed)
}
