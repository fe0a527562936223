// Package alert turns AWS cloud event notifications delivered over SNS into
// ntfy push messages.
//
// Handler flow, per SNS record in batch order:
//  1. Parse the SNS message string as a CloudEvent.
//  2. Format title and body.
//  3. Read the ntfy token (cached after the first successful read).
//  4. Publish to ntfy; anything but HTTP 200 is a failure.
package alert

import (
	"bytes"
	"encoding/json"
	"fmt"

	"alertforwarder/internal/types"
)

// CloudEvent is the EventBridge-style payload carried in each SNS message.
// All fields are optional.
type CloudEvent struct {
	Source     string         `json:"source"`
	DetailType string         `json:"detail-type"`
	Detail     map[string]any `json:"detail"`
	Region     string         `json:"region"`

	// Time is kept as the raw string so that an unparsable timestamp
	// degrades to "Unknown" instead of rejecting the event.
	Time string `json:"time"`
}

// ParseCloudEvent decodes one SNS message. The message must be a JSON object.
// Numbers in detail are kept as json.Number so they render exactly as sent.
func ParseCloudEvent(message string) (*CloudEvent, error) {
	data := bytes.TrimSpace([]byte(message))
	if len(data) == 0 || data[0] != '{' {
		return nil, types.NewAppError(
			types.ErrCodeValidationEventPayload,
			"SNS message is not a JSON object",
			nil,
		)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var ev CloudEvent
	if err := dec.Decode(&ev); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeValidationEventPayload,
			"failed to decode SNS message as cloud event",
			err,
		)
	}
	if ev.Detail == nil {
		ev.Detail = map[string]any{}
	}
	return &ev, nil
}

// DetailString returns detail[key] rendered for display and whether the
// key is present. Strings render verbatim, everything else as compact JSON.
func (e *CloudEvent) DetailString(key string) (string, bool) {
	v, ok := e.Detail[key]
	if !ok {
		return "", false
	}
	return renderValue(v), true
}

func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
