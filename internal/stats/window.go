package stats

import "fmt"

// BoundedWindow is a fixed-capacity FIFO over the most recent items. Push is
// O(1); once the window is full the oldest item is evicted on each push.
type BoundedWindow[T any] struct {
	buf   []T
	start int
	size  int
}

// NewBoundedWindow builds a window with the given capacity. Non-positive
// capacity is a configuration error.
func NewBoundedWindow[T any](capacity int) (*BoundedWindow[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &BoundedWindow[T]{buf: make([]T, capacity)}, nil
}

// Push appends an item, evicting the oldest if the window is full.
func (w *BoundedWindow[T]) Push(item T) {
	if w.size < len(w.buf) {
		w.buf[(w.start+w.size)%len(w.buf)] = item
		w.size++
		return
	}
	w.buf[w.start] = item
	w.start = (w.start + 1) % len(w.buf)
}

// Len returns the number of items currently held.
func (w *BoundedWindow[T]) Len() int {
	return w.size
}

// Cap returns the window capacity.
func (w *BoundedWindow[T]) Cap() int {
	return len(w.buf)
}

// Snapshot copies the current contents, oldest to newest.
func (w *BoundedWindow[T]) Snapshot() []T {
	out := make([]T, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}
