package amqp

import (
	"encoding/json"
	"errors"
	"fmt"

	"budget/internal/ports"
)

var errIncompleteEvent = errors.New("change event without entity or action")

// EncodeChangeEvent converts the event to its JSON wire form.
func EncodeChangeEvent(ev ports.ChangeEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// DecodeChangeEvent parses a delivery body. Bodies missing the entity or the
// action are rejected.
func DecodeChangeEvent(data []byte) (ports.ChangeEvent, error) {
	var ev ports.ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("decode change event: %w", err)
	}
	if ev.Entity == "" || ev.Action == "" {
		return ev, errIncompleteEvent
	}
	return ev, nil
}
