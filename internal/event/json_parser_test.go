package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_StringKeyRFC3339(t *testing.T) {
	ev, err := ParseJSON([]byte(`{"key":"user-7","value":42.5,"emitted_at":"2026-08-30T12:00:00Z"}`))
	require.NoError(t, err)

	assert.Equal(t, "user-7", ev.Key)
	assert.Equal(t, 42.5, ev.Value)
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), ev.EmittedAt)
}

func TestParseJSON_IntegerKeyEpochTimestamp(t *testing.T) {
	ev, err := ParseJSON([]byte(`{"key":123,"value":1.0,"emitted_at":1756555200.25}`))
	require.NoError(t, err)

	assert.Equal(t, "123", ev.Key, "integer keys canonicalize to their string form")
	assert.Equal(t, time.Unix(1756555200, 250000000).UTC(), ev.EmittedAt.UTC())
}

func TestParseJSON_MissingFields(t *testing.T) {
	for _, payload := range []string{
		`{"value":1.0,"emitted_at":"2026-08-30T12:00:00Z"}`,
		`{"key":"a","emitted_at":"2026-08-30T12:00:00Z"}`,
		`{"key":"a","value":1.0}`,
	} {
		_, err := ParseJSON([]byte(payload))
		assert.ErrorIs(t, err, ErrMissingField, "payload: %s", payload)
	}
}

func TestParseJSON_InvalidTypes(t *testing.T) {
	_, err := ParseJSON([]byte(`{"key":[1],"value":1.0,"emitted_at":"2026-08-30T12:00:00Z"}`))
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = ParseJSON([]byte(`{"key":"a","value":1.0,"emitted_at":"yesterday"}`))
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrJSONUnmarshalFailed)
}

func TestNewFromInt(t *testing.T) {
	now := time.Now()
	ev := NewFromInt(4711, 2.5, now)
	assert.Equal(t, "4711", ev.Key)
	assert.Equal(t, 2.5, ev.Value)
	assert.Equal(t, now, ev.EmittedAt)
}
