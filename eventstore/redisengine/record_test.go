package redisengine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

func Test_Record_RoundTrip_PlacesEventAtPosition(t *testing.T) {
	// arrange
	occurredAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event, err := eventstore.BuildStorableEvent("CompanyFounded", occurredAt, []byte(`{"Name":"Acme"}`), []byte(`{"MessageID":"m-1"}`))
	require.NoError(t, err)
	streamID := uuid.New()

	// act
	raw, err := encodeRecord(event)
	require.NoError(t, err)
	decoded, err := decodeRecord(raw, streamID, 3)

	// assert
	require.NoError(t, err)
	assert.Equal(t, streamID, decoded.StreamID)
	assert.Equal(t, eventstore.StreamVersionUint(3), decoded.StreamVersion)
	assert.Equal(t, "CompanyFounded", decoded.EventType)
	assert.True(t, occurredAt.Equal(decoded.OccurredAt))
	assert.JSONEq(t, `{"Name":"Acme"}`, string(decoded.PayloadJSON))
	assert.JSONEq(t, `{"MessageID":"m-1"}`, string(decoded.MetadataJSON))
}

func Test_DecodeRecord_When_ElementIsNotJSON_Then_ItFails(t *testing.T) {
	_, err := decodeRecord("not json", uuid.New(), 1)

	assert.Error(t, err)
}

func Test_DecodeRecord_When_PayloadIsMissing_Then_ItFails(t *testing.T) {
	_, err := decodeRecord(`{"event_type":"A","occurred_at":"2026-03-01T12:00:00Z"}`, uuid.New(), 1)

	assert.ErrorIs(t, err, eventstore.ErrInvalidPayloadJSON)
}
