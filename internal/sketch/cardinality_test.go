package sketch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardinalityEstimator_InvalidPrecision(t *testing.T) {
	for _, p := range []int{0, 3, 17, -1} {
		_, err := NewCardinalityEstimator(p)
		assert.ErrorIs(t, err, ErrInvalidPrecision, "p=%d", p)
	}
}

func TestCardinalityEstimator_SmallRange(t *testing.T) {
	ce, err := NewCardinalityEstimator(10)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		ce.Add(fmt.Sprintf("user-%d", i))
	}
	// Linear counting keeps small cardinalities near-exact.
	assert.InDelta(t, 50.0, ce.Estimate(), 3.0)
}

func TestCardinalityEstimator_DuplicatesDoNotInflate(t *testing.T) {
	ce, err := NewCardinalityEstimator(10)
	require.NoError(t, err)

	for round := 0; round < 100; round++ {
		for i := 0; i < 20; i++ {
			ce.Add(fmt.Sprintf("user-%d", i))
		}
	}
	assert.InDelta(t, 20.0, ce.Estimate(), 2.0)
}

func TestCardinalityEstimator_WithinErrorBound(t *testing.T) {
	ce, err := NewCardinalityEstimator(10)
	require.NoError(t, err)

	const distinct = 20000
	for i := 0; i < distinct; i++ {
		ce.Add(fmt.Sprintf("user-%d", i))
	}

	got := ce.Estimate()
	// Allow five standard errors; failures at this bound indicate a broken
	// estimator, not bad luck.
	tolerance := 5 * ce.RelativeError() * distinct
	assert.InDelta(t, float64(distinct), got, tolerance)
}

func TestCardinalityEstimator_Empty(t *testing.T) {
	ce, err := NewCardinalityEstimator(10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ce.Estimate())
}
