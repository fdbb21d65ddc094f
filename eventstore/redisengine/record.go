package redisengine

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
)

var recordJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// record is the shape of one list element.
type record struct {
	EventType  string              `json:"event_type"`
	OccurredAt time.Time           `json:"occurred_at"`
	Payload    jsoniter.RawMessage `json:"payload"`
	Metadata   jsoniter.RawMessage `json:"metadata"`
}

func encodeRecord(event eventstore.StorableEvent) (string, error) {
	raw, err := recordJSON.Marshal(record{
		EventType:  event.EventType,
		OccurredAt: event.OccurredAt,
		Payload:    event.PayloadJSON,
		Metadata:   event.MetadataJSON,
	})
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func decodeRecord(raw string, streamID uuid.UUID, version eventstore.StreamVersionUint) (eventstore.StorableEvent, error) {
	var r record
	if err := recordJSON.UnmarshalFromString(raw, &r); err != nil {
		return eventstore.StorableEvent{}, err
	}

	event, err := eventstore.BuildStorableEvent(r.EventType, r.OccurredAt, r.Payload, r.Metadata)
	if err != nil {
		return eventstore.StorableEvent{}, err
	}

	return event.AtPosition(streamID, version), nil
}
