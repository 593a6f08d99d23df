package nats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sheets-editor-be/pkg/events"
)

const (
	StreamName    = "EVENTS"
	subjectPrefix = "events."
)

// Subject returns the subject an event type is published on.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}

func encode(event events.Event) ([]byte, error) {
	return json.Marshal(events.BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
}

// decode accepts the envelope written by encode. Bare payloads from older
// publishers are wrapped, taking the type from the subject.
func decode(subject string, data []byte) (events.BaseEvent, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if _, ok := raw["type"]; ok {
		if _, ok := raw["data"]; ok {
			var evt events.BaseEvent
			if err := json.Unmarshal(data, &evt); err != nil {
				return events.BaseEvent{}, fmt.Errorf("failed to unmarshal event envelope: %w", err)
			}
			return evt, nil
		}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to unmarshal event payload: %w", err)
	}
	return events.BaseEvent{
		Type:       strings.TrimPrefix(subject, subjectPrefix),
		Data:       payload,
		OccurredAt: time.Now(),
	}, nil
}
