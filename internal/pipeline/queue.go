package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sanspareilsmyn/streampulse/internal/event"
)

// IngestQueue is the bounded, blocking hand-off between producers and the
// scheduler, and the engine's only backpressure mechanism: Put blocks while
// the queue is full, so producers slow down when the consumer falls behind.
// No event is ever dropped by the queue itself. FIFO order is preserved;
// multiple producers interleave in queue-arrival order.
type IngestQueue struct {
	ch chan event.Event
}

// NewIngestQueue builds a queue with a fixed capacity. Non-positive capacity
// is a configuration error.
func NewIngestQueue(capacity int) (*IngestQueue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQueueCapacity, capacity)
	}
	return &IngestQueue{ch: make(chan event.Event, capacity)}, nil
}

// Put enqueues one event, blocking while the queue is full. The wait is
// aborted only by ctx cancellation; abandoning a blocked Put is the
// producer's choice and the single event-loss path in the system.
func (q *IngestQueue) Put(ctx context.Context, ev event.Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Take dequeues one event, blocking up to timeout. The second return is
// false when the timeout elapsed (or ctx was cancelled) with no event
// available; that is the expected no-data signal, not an error.
func (q *IngestQueue) Take(ctx context.Context, timeout time.Duration) (event.Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-q.ch:
		return ev, true
	case <-timer.C:
		return event.Event{}, false
	case <-ctx.Done():
		return event.Event{}, false
	}
}

// TryTake dequeues without blocking. Used by the scheduler to drain
// leftovers during shutdown.
func (q *IngestQueue) TryTake() (event.Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return event.Event{}, false
	}
}

// Len returns the current queue depth. Read-only; used by the depth
// reporter.
func (q *IngestQueue) Len() int {
	return len(q.ch)
}

// Cap returns the fixed queue capacity.
func (q *IngestQueue) Cap() int {
	return cap(q.ch)
}
