// Package events publishes and consumes JSON event envelopes over Kafka.
package events

import (
	"encoding/json"
	"time"
)

// Header keys attached to every published message.
const (
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

// Event is the envelope carried in every message value.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}
