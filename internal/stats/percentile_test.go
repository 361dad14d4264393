package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile_LinearInterpolation(t *testing.T) {
	// 1..100: p50 sits between ranks 49 and 50.
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}

	assert.InDelta(t, 50.5, Percentile(values, 50), 1e-9)
	assert.InDelta(t, 95.05, Percentile(values, 95), 1e-9)
	assert.InDelta(t, 99.01, Percentile(values, 99), 1e-9)
	assert.InDelta(t, 1.0, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 100.0, Percentile(values, 100), 1e-9)
}

func TestPercentile_UnsortedInput(t *testing.T) {
	values := []float64{30, 10, 20}
	assert.InDelta(t, 20.0, Percentile(values, 50), 1e-9)
	// Input order preserved.
	assert.Equal(t, []float64{30, 10, 20}, values)
}

func TestPercentile_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 99))
}

func TestPercentiles_SharedSort(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	got := Percentiles(values, 50, 100)
	assert.InDelta(t, 2.5, got[0], 1e-9)
	assert.InDelta(t, 4.0, got[1], 1e-9)
}
