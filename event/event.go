package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrPayloadMismatch is returned when Data does not belong to Type
var ErrPayloadMismatch = errors.New("payload does not match event type")

// DomainEvent is one timestamped, typed occurrence in a session
type DomainEvent struct {
	Type      Type
	Timestamp int64 // Unix ms
	Data      Payload
}

// New builds an event whose Type is taken from the payload
func New(ts int64, p Payload) DomainEvent {
	return DomainEvent{Type: p.EventType(), Timestamp: ts, Data: p}
}

type wireEvent struct {
	Type      Type            `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// MarshalJSON writes {"type","timestamp","data"}
func (e DomainEvent) MarshalJSON() ([]byte, error) {
	if e.Data != nil && e.Data.EventType() != e.Type {
		return nil, fmt.Errorf("%w: %s carries %s", ErrPayloadMismatch, e.Type, e.Data.EventType())
	}
	data := []byte("{}")
	if e.Data != nil {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(wireEvent{Type: e.Type, Timestamp: e.Timestamp, Data: data})
}

// UnmarshalJSON decodes the payload into the struct registered for the type tag
func (e *DomainEvent) UnmarshalJSON(b []byte) error {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	p, err := DecodePayload(w.Type, w.Data)
	if err != nil {
		return err
	}
	e.Type = w.Type
	e.Timestamp = w.Timestamp
	e.Data = p
	return nil
}
