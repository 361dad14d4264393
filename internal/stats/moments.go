package stats

// RollingMoments tracks the mean and variance of every value seen since
// construction via Welford's single-pass update. Unlike the bounded windows
// it is cumulative: the history is unbounded and there is no reset.
type RollingMoments struct {
	count    uint64
	mean     float64
	sumSqDev float64
}

// NewRollingMoments returns an empty accumulator.
func NewRollingMoments() *RollingMoments {
	return &RollingMoments{}
}

// Observe folds one value into the running moments.
func (m *RollingMoments) Observe(value float64) {
	m.count++
	delta := value - m.mean
	m.mean += delta / float64(m.count)
	m.sumSqDev += delta * (value - m.mean)
}

// Count returns the number of observed values.
func (m *RollingMoments) Count() uint64 {
	return m.count
}

// Mean returns the running mean, or 0 before any observation.
func (m *RollingMoments) Mean() float64 {
	return m.mean
}

// Variance returns the sample variance (n-1 denominator), or 0 with fewer
// than two observations.
func (m *RollingMoments) Variance() float64 {
	if m.count < 2 {
		return 0
	}
	return m.sumSqDev / float64(m.count-1)
}
