package sketch

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// FrequencySketch approximates per-key occurrence counts in Count-Min style.
// Counters only grow; Estimate never undercounts, and the overestimate is
// bounded by (e/width)*totalAdds per row with probability 1-(1/e)^depth.
type FrequencySketch struct {
	width    uint32
	depth    uint32
	counters [][]uint64
	total    uint64
}

// NewFrequencySketch builds a sketch with the given counter matrix
// dimensions. Non-positive dimensions are a configuration error.
func NewFrequencySketch(width, depth int) (*FrequencySketch, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: width=%d depth=%d", ErrInvalidDimensions, width, depth)
	}
	counters := make([][]uint64, depth)
	for i := range counters {
		counters[i] = make([]uint64, width)
	}
	return &FrequencySketch{
		width:    uint32(width),
		depth:    uint32(depth),
		counters: counters,
	}, nil
}

// Add increments one counter per row for the key. The per-row indexes are
// derived from a single 64-bit hash via the double-hashing scheme
// h1 + i*h2, so rows stay pairwise independent without depth hash passes.
func (f *FrequencySketch) Add(key string) {
	h1, h2 := f.indexes(key)
	for i := uint32(0); i < f.depth; i++ {
		f.counters[i][(h1+i*h2)%f.width]++
	}
	f.total++
}

// Estimate returns the minimum counter across rows for the key. The result
// is always >= the true count of Add calls for that key.
func (f *FrequencySketch) Estimate(key string) uint64 {
	h1, h2 := f.indexes(key)
	min := f.counters[0][h1%f.width]
	for i := uint32(1); i < f.depth; i++ {
		if c := f.counters[i][(h1+i*h2)%f.width]; c < min {
			min = c
		}
	}
	return min
}

// Total returns the number of Add calls over the sketch's lifetime.
func (f *FrequencySketch) Total() uint64 {
	return f.total
}

func (f *FrequencySketch) indexes(key string) (uint32, uint32) {
	h := xxhash.Sum64String(key)
	h1 := uint32(h)
	h2 := uint32(h>>32) | 1 // force odd so the stride never collapses
	return h1, h2
}
