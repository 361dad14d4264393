package sketch

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const (
	minPrecision = 4
	maxPrecision = 16
)

// CardinalityEstimator approximates the number of distinct keys seen, in
// HyperLogLog style. It keeps 2^p one-byte registers; the expected relative
// error is about 1.04/sqrt(2^p). There is no removal and no reset.
type CardinalityEstimator struct {
	precision uint8
	registers []uint8
}

// NewCardinalityEstimator builds an estimator with the given precision p.
// Precision outside [4, 16] is a configuration error.
func NewCardinalityEstimator(precision int) (*CardinalityEstimator, error) {
	if precision < minPrecision || precision > maxPrecision {
		return nil, fmt.Errorf("%w: precision %d not in [%d, %d]",
			ErrInvalidPrecision, precision, minPrecision, maxPrecision)
	}
	return &CardinalityEstimator{
		precision: uint8(precision),
		registers: make([]uint8, 1<<precision),
	}, nil
}

// Add observes one key. The top p bits of the key's hash select a register;
// the register keeps the maximum rank (position of the leftmost set bit)
// seen in the remaining bits.
func (c *CardinalityEstimator) Add(key string) {
	x := uint32(xxhash.Sum64String(key))
	idx := x >> (32 - c.precision)

	w := x << c.precision
	var rank uint8
	if w == 0 {
		rank = 32 - c.precision + 1
	} else {
		rank = uint8(bits.LeadingZeros32(w)) + 1
	}

	if rank > c.registers[idx] {
		c.registers[idx] = rank
	}
}

// Estimate returns the approximate distinct-key count using the harmonic
// mean of the registers, with linear-counting correction for small ranges
// and the standard correction for the large range.
func (c *CardinalityEstimator) Estimate() float64 {
	m := float64(len(c.registers))

	var sum float64
	var zeros float64
	for _, reg := range c.registers {
		sum += 1.0 / float64(uint64(1)<<reg)
		if reg == 0 {
			zeros++
		}
	}

	estimate := alpha(len(c.registers)) * m * m / sum

	const two32 = 1 << 32
	switch {
	case estimate <= 2.5*m && zeros > 0:
		estimate = m * math.Log(m/zeros)
	case estimate > two32/30.0:
		estimate = -two32 * math.Log(1.0-estimate/two32)
	}
	return estimate
}

// RelativeError returns the expected standard error of Estimate.
func (c *CardinalityEstimator) RelativeError() float64 {
	return 1.04 / math.Sqrt(float64(len(c.registers)))
}

func alpha(m int) float64 {
	switch m {
	case 16:
		return 0.673
	case 32:
		return 0.697
	case 64:
		return 0.709
	default:
		return 0.7213 / (1.0 + 1.079/float64(m))
	}
}
