package eventstore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validJSON := []byte(`{"key": "value"}`)

	tests := []struct {
		name         string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{name: "invalid payload JSON", payloadJSON: []byte(`{"invalid": json}`), metadataJSON: validJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "invalid metadata JSON", payloadJSON: validJSON, metadataJSON: []byte(`{"invalid": json}`), expectedErr: ErrInvalidMetadataJSON},
		{name: "empty payload JSON", payloadJSON: []byte(``), metadataJSON: validJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "empty metadata JSON", payloadJSON: validJSON, metadataJSON: []byte(``), expectedErr: ErrInvalidMetadataJSON},
		{name: "nil payload JSON", payloadJSON: nil, metadataJSON: validJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "nil metadata JSON", payloadJSON: validJSON, metadataJSON: nil, expectedErr: ErrInvalidMetadataJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildStorableEvent("CompanyFounded", time.Now(), tt.payloadJSON, tt.metadataJSON)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildStorableEvent_Success(t *testing.T) {
	occurredAt := time.Now()
	payloadJSON := []byte(`{"CompanyID": "c-1", "Name": "Planet Express"}`)
	metadataJSON := []byte(`{"CorrelationID": "corr-789"}`)

	storableEvent, err := BuildStorableEvent("CompanyFounded", occurredAt, payloadJSON, metadataJSON)

	require.NoError(t, err)
	assert.Equal(t, "CompanyFounded", storableEvent.EventType)
	assert.Equal(t, occurredAt, storableEvent.OccurredAt)
	assert.Equal(t, payloadJSON, storableEvent.PayloadJSON)
	assert.Equal(t, metadataJSON, storableEvent.MetadataJSON)
	assert.Equal(t, uuid.Nil, storableEvent.StreamID)
	assert.Zero(t, storableEvent.StreamVersion)
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	storableEvent, err := BuildStorableEventWithEmptyMetadata("EmployeeHired", time.Now(), []byte(`{"Name": "Fry"}`))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), storableEvent.MetadataJSON)

	_, err = BuildStorableEventWithEmptyMetadata("EmployeeHired", time.Now(), []byte(`nope`))
	assert.ErrorIs(t, err, ErrInvalidPayloadJSON)
}

func Test_AtPosition_ReturnsPositionedCopy(t *testing.T) {
	original, err := BuildStorableEventWithEmptyMetadata("EmployeePromoted", time.Now(), []byte(`{}`))
	require.NoError(t, err)
	streamID := uuid.New()

	positioned := original.AtPosition(streamID, 3)

	assert.Equal(t, streamID, positioned.StreamID)
	assert.Equal(t, StreamVersionUint(3), positioned.StreamVersion)
	assert.Equal(t, uuid.Nil, original.StreamID)
}
