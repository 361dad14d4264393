package sketch

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrequencySketch_InvalidDimensions(t *testing.T) {
	for _, tc := range []struct{ width, depth int }{
		{0, 5},
		{1000, 0},
		{-1, 5},
		{1000, -3},
	} {
		_, err := NewFrequencySketch(tc.width, tc.depth)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "width=%d depth=%d", tc.width, tc.depth)
	}
}

func TestFrequencySketch_ExactOnSparseKeys(t *testing.T) {
	fs, err := NewFrequencySketch(1000, 5)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		fs.Add("alpha")
	}
	for i := 0; i < 3; i++ {
		fs.Add("beta")
	}

	// With only two keys in a 1000-wide sketch, collisions are absent and
	// the estimates are exact.
	assert.Equal(t, uint64(7), fs.Estimate("alpha"))
	assert.Equal(t, uint64(3), fs.Estimate("beta"))
	assert.Equal(t, uint64(10), fs.Total())
}

func TestFrequencySketch_NeverUndercounts(t *testing.T) {
	// Deliberately tiny sketch to force collisions; the one-sided error law
	// must hold regardless.
	fs, err := NewFrequencySketch(16, 3)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	trueCounts := make(map[string]uint64)
	for i := 0; i < 5000; i++ {
		key := fmt.Sprintf("key-%d", rng.Intn(200))
		fs.Add(key)
		trueCounts[key]++
	}

	for key, want := range trueCounts {
		got := fs.Estimate(key)
		assert.GreaterOrEqual(t, got, want, "key %s undercounted", key)
	}
}

func TestFrequencySketch_UnseenKey(t *testing.T) {
	fs, err := NewFrequencySketch(1000, 5)
	require.NoError(t, err)

	fs.Add("present")
	// A single insert into a wide sketch cannot collide with itself.
	assert.Equal(t, uint64(0), fs.Estimate("absent"))
}
