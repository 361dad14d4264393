package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/streampulse/internal/event"
)

func TestNewIngestQueue_InvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -5} {
		_, err := NewIngestQueue(c)
		assert.ErrorIs(t, err, ErrInvalidQueueCapacity, "capacity=%d", c)
	}
}

func TestIngestQueue_FIFO(t *testing.T) {
	q, err := NewIngestQueue(3)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, q.Put(ctx, event.New(key, 1.0, now)))
	}

	for _, want := range []string{"a", "b", "c"} {
		ev, ok := q.Take(ctx, time.Second)
		require.True(t, ok)
		assert.Equal(t, want, ev.Key)
	}
}

func TestIngestQueue_TakeTimeout(t *testing.T) {
	q, err := NewIngestQueue(1)
	require.NoError(t, err)

	start := time.Now()
	_, ok := q.Take(context.Background(), 30*time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestIngestQueue_TakeAbortsOnCancel(t *testing.T) {
	q, err := NewIngestQueue(1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	_, ok := q.Take(ctx, time.Minute)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestIngestQueue_PutBlocksUntilTake(t *testing.T) {
	q, err := NewIngestQueue(1)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, q.Put(ctx, event.New("first", 1.0, now)))

	unblocked := make(chan struct{})
	go func() {
		// Queue is full; this must block until the Take below frees a slot.
		_ = q.Put(ctx, event.New("second", 2.0, now))
		close(unblocked)
	}()

	select {
	case <-unblocked:
		t.Fatal("Put on a full queue returned before Take")
	case <-time.After(50 * time.Millisecond):
	}

	ev, ok := q.Take(ctx, time.Second)
	require.True(t, ok)
	assert.Equal(t, "first", ev.Key)

	select {
	case <-unblocked:
	case <-time.After(time.Second):
		t.Fatal("Put did not unblock after Take")
	}

	// The contended event was not lost.
	ev, ok = q.Take(ctx, time.Second)
	require.True(t, ok)
	assert.Equal(t, "second", ev.Key)
}

func TestIngestQueue_PutAbortsOnCancel(t *testing.T) {
	q, err := NewIngestQueue(1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, q.Put(ctx, event.New("fill", 1.0, time.Now())))

	done := make(chan error, 1)
	go func() {
		done <- q.Put(ctx, event.New("blocked", 2.0, time.Now()))
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Put did not abort on context cancellation")
	}
}

func TestIngestQueue_TryTakeAndDepth(t *testing.T) {
	q, err := NewIngestQueue(2)
	require.NoError(t, err)

	_, ok := q.TryTake()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 2, q.Cap())

	require.NoError(t, q.Put(context.Background(), event.New("x", 1.0, time.Now())))
	assert.Equal(t, 1, q.Len())

	ev, ok := q.TryTake()
	require.True(t, ok)
	assert.Equal(t, "x", ev.Key)
}
