package event

import (
	"strconv"
	"time"
)

// Event is a single observation flowing through the engine. It is immutable
// once created: the ingest queue owns it until the scheduler dequeues it,
// the batch buffer owns it until it is folded into the accumulators, and it
// is discarded afterwards.
type Event struct {
	Key       string    `json:"key"`
	Value     float64   `json:"value"`
	EmittedAt time.Time `json:"emitted_at"`
}

// New builds an Event from a string key.
func New(key string, value float64, emittedAt time.Time) Event {
	return Event{Key: key, Value: value, EmittedAt: emittedAt}
}

// NewFromInt builds an Event from an integer identity, using its canonical
// string form as the key. The sketches hash keys as strings, so integer and
// string producers agree on identity.
func NewFromInt(key int64, value float64, emittedAt time.Time) Event {
	return Event{Key: strconv.FormatInt(key, 10), Value: value, EmittedAt: emittedAt}
}
