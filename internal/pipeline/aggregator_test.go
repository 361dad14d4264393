package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/streampulse/internal/config"
	"github.com/sanspareilsmyn/streampulse/internal/event"
	"github.com/sanspareilsmyn/streampulse/internal/stats"
)

func newTestAggregator(t *testing.T, now time.Time) *BatchAggregator {
	t.Helper()
	agg, err := NewBatchAggregator(config.Default().Engine, zap.NewNop())
	require.NoError(t, err)
	return agg.WithClock(func() time.Time { return now })
}

func TestBatchAggregator_SummaryFields(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	agg := newTestAggregator(t, now)

	batch := []event.Event{
		event.New("123", 10.0, now.Add(-10*time.Millisecond)),
		event.New("123", 20.0, now.Add(-20*time.Millisecond)),
		event.New("456", 30.0, now.Add(-30*time.Millisecond)),
	}
	summary := agg.Aggregate(batch)

	assert.Equal(t, 3, summary.BatchSize)
	assert.Equal(t, uint64(3), summary.EventsTotal)
	assert.InDelta(t, 2.0, summary.DistinctEstimate, 0.5)
	assert.Equal(t, "123", summary.ProbeKey)
	assert.Equal(t, uint64(2), summary.ProbeKeyEstimate)
	assert.InDelta(t, 20.0, summary.Mean, 1e-12)
	assert.InDelta(t, 100.0, summary.Variance, 1e-12)
	assert.Equal(t, uint64(0), summary.ClockAnomalies)

	// Latencies are 10/20/30ms oldest-event-last in window order 10,20,30.
	assert.InDelta(t, 20.0, summary.LatencyP50Ms, 1e-9)
	assert.InDelta(t, 29.0, summary.LatencyP95Ms, 1e-9)
	assert.InDelta(t, 29.8, summary.LatencyP99Ms, 1e-9)
}

func TestBatchAggregator_TopBucketsOrder(t *testing.T) {
	now := time.Now()
	agg := newTestAggregator(t, now)

	summary := agg.Aggregate([]event.Event{
		event.New("a", 5.0, now),
		event.New("b", 7.0, now),
		event.New("c", 5.2, now),
		event.New("d", 9.0, now),
		event.New("e", 7.4, now),
	})

	// Buckets 5 and 7 tie at two; 5 entered the window first.
	assert.Equal(t, []stats.BucketCount{
		{Bucket: 5, Count: 2},
		{Bucket: 7, Count: 2},
		{Bucket: 9, Count: 1},
	}, summary.TopBuckets)
}

func TestBatchAggregator_NegativeLatencyClamped(t *testing.T) {
	now := time.Now()
	agg := newTestAggregator(t, now)

	summary := agg.Aggregate([]event.Event{
		event.New("a", 1.0, now.Add(100*time.Millisecond)), // emitted "in the future"
		event.New("b", 2.0, now.Add(-5*time.Millisecond)),
	})

	assert.Equal(t, uint64(1), summary.ClockAnomalies)
	assert.GreaterOrEqual(t, summary.LatencyP50Ms, 0.0)
	// Aggregation continued past the fault.
	assert.Equal(t, uint64(2), summary.EventsTotal)
}

func TestBatchAggregator_Deterministic(t *testing.T) {
	now := time.Now()
	batch := []event.Event{
		event.New("1", 12.7, now.Add(-3*time.Millisecond)),
		event.New("2", 47.1, now.Add(-8*time.Millisecond)),
		event.New("1", 33.3, now.Add(-1*time.Millisecond)),
	}

	first := newTestAggregator(t, now).Aggregate(batch)
	second := newTestAggregator(t, now).Aggregate(batch)
	assert.Equal(t, first, second)
}

func TestBatchAggregator_StateAccumulatesAcrossBatches(t *testing.T) {
	now := time.Now()
	agg := newTestAggregator(t, now)

	agg.Aggregate([]event.Event{event.New("123", 10.0, now)})
	summary := agg.Aggregate([]event.Event{event.New("123", 30.0, now)})

	assert.Equal(t, uint64(2), summary.EventsTotal)
	assert.Equal(t, uint64(2), summary.ProbeKeyEstimate)
	assert.InDelta(t, 20.0, summary.Mean, 1e-12)
}

func TestNewBatchAggregator_InvalidConfig(t *testing.T) {
	cfg := config.Default().Engine
	cfg.ValueWindowCapacity = 0
	_, err := NewBatchAggregator(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg = config.Default().Engine
	cfg.CardinalityPrecision = 99
	_, err = NewBatchAggregator(cfg, zap.NewNop())
	assert.Error(t, err)
}
