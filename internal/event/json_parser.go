package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// wireEvent is the JSON shape produced by external sources. The key may be
// a JSON string or number; the timestamp may be RFC3339 or a Unix epoch in
// (possibly fractional) seconds.
type wireEvent struct {
	Key       json.RawMessage `json:"key"`
	Value     *float64        `json:"value"`
	EmittedAt json.RawMessage `json:"emitted_at"`
}

// ParseJSON decodes one event from a byte slice. It returns
// ErrJSONUnmarshalFailed (wrapping the original error) on malformed input
// and ErrMissingField when a required field is absent.
func ParseJSON(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}

	if w.Key == nil {
		return Event{}, fmt.Errorf("%w: key", ErrMissingField)
	}
	if w.Value == nil {
		return Event{}, fmt.Errorf("%w: value", ErrMissingField)
	}
	if w.EmittedAt == nil {
		return Event{}, fmt.Errorf("%w: emitted_at", ErrMissingField)
	}

	key, err := parseKey(w.Key)
	if err != nil {
		return Event{}, err
	}
	emittedAt, err := parseTimestamp(w.EmittedAt)
	if err != nil {
		return Event{}, err
	}

	return Event{Key: key, Value: *w.Value, EmittedAt: emittedAt}, nil
}

// parseKey accepts a JSON string or an integer and returns the canonical
// string form.
func parseKey(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	return "", fmt.Errorf("%w: key must be a string or integer", ErrInvalidField)
}

// parseTimestamp accepts an RFC3339 string or a Unix epoch number with
// optional fractional seconds.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: emitted_at: %w", ErrInvalidField, err)
		}
		return t, nil
	}
	var epoch float64
	if err := json.Unmarshal(raw, &epoch); err == nil {
		sec := int64(epoch)
		nsec := int64((epoch - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec), nil
	}
	return time.Time{}, fmt.Errorf("%w: emitted_at must be RFC3339 or epoch seconds", ErrInvalidField)
}
