package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/streampulse/internal/config"
	"github.com/sanspareilsmyn/streampulse/internal/event"
	"github.com/sanspareilsmyn/streampulse/internal/sketch"
	"github.com/sanspareilsmyn/streampulse/internal/stats"
)

// BatchAggregator owns the four accumulator states and folds batches into
// them. The sketches and moments are cumulative over the process lifetime;
// the two windows hold only the most recent items. Aggregation is
// single-threaded: the scheduler is the only caller, so no locking is
// needed here.
type BatchAggregator struct {
	cardinality   *sketch.CardinalityEstimator
	frequency     *sketch.FrequencySketch
	moments       *stats.RollingMoments
	valueWindow   *stats.BoundedWindow[float64]
	latencyWindow *stats.BoundedWindow[float64]

	probeKey       string
	topBuckets     int
	clockAnomalies uint64

	now    func() time.Time
	logger *zap.Logger
}

// NewBatchAggregator builds an aggregator with fresh accumulators sized
// from config. Capacity and dimension misconfiguration surfaces here,
// before any event flows.
func NewBatchAggregator(cfg config.EngineConfig, logger *zap.Logger) (*BatchAggregator, error) {
	cardinality, err := sketch.NewCardinalityEstimator(cfg.CardinalityPrecision)
	if err != nil {
		return nil, err
	}
	frequency, err := sketch.NewFrequencySketch(cfg.FrequencyWidth, cfg.FrequencyDepth)
	if err != nil {
		return nil, err
	}
	valueWindow, err := stats.NewBoundedWindow[float64](cfg.ValueWindowCapacity)
	if err != nil {
		return nil, err
	}
	latencyWindow, err := stats.NewBoundedWindow[float64](cfg.LatencyWindowCapacity)
	if err != nil {
		return nil, err
	}

	logger.Info("Batch aggregator initialized",
		zap.Int("cardinality_precision", cfg.CardinalityPrecision),
		zap.Int("frequency_width", cfg.FrequencyWidth),
		zap.Int("frequency_depth", cfg.FrequencyDepth),
		zap.Int("value_window_capacity", cfg.ValueWindowCapacity),
		zap.Int("latency_window_capacity", cfg.LatencyWindowCapacity),
		zap.String("probe_key", cfg.ProbeKey),
	)

	return &BatchAggregator{
		cardinality:   cardinality,
		frequency:     frequency,
		moments:       stats.NewRollingMoments(),
		valueWindow:   valueWindow,
		latencyWindow: latencyWindow,
		probeKey:      cfg.ProbeKey,
		topBuckets:    cfg.TopBuckets,
		now:           time.Now,
		logger:        logger,
	}, nil
}

// WithClock replaces the wall clock, for deterministic tests.
func (a *BatchAggregator) WithClock(now func() time.Time) *BatchAggregator {
	a.now = now
	return a
}

// Aggregate folds one batch into the accumulators in arrival order and
// returns the summary snapshot. Negative latencies indicate a clock or
// transport fault; they are clamped to zero and counted, never fatal.
func (a *BatchAggregator) Aggregate(batch []event.Event) BatchSummary {
	for _, ev := range batch {
		latency := a.now().Sub(ev.EmittedAt)
		if latency < 0 {
			latency = 0
			a.clockAnomalies++
			a.logger.Debug("Clamped negative event latency",
				zap.String("key", ev.Key),
				zap.Time("emitted_at", ev.EmittedAt),
			)
		}

		a.cardinality.Add(ev.Key)
		a.frequency.Add(ev.Key)
		a.valueWindow.Push(ev.Value)
		a.latencyWindow.Push(latency.Seconds())
		a.moments.Observe(ev.Value)
	}

	latencies := stats.Percentiles(a.latencyWindow.Snapshot(), 50, 95, 99)
	const msPerSec = 1000

	return BatchSummary{
		BatchSize:        len(batch),
		EventsTotal:      a.moments.Count(),
		DistinctEstimate: a.cardinality.Estimate(),
		ProbeKey:         a.probeKey,
		ProbeKeyEstimate: a.frequency.Estimate(a.probeKey),
		TopBuckets:       stats.TopBuckets(a.valueWindow.Snapshot(), a.topBuckets),
		Mean:             a.moments.Mean(),
		Variance:         a.moments.Variance(),
		LatencyP50Ms:     latencies[0] * msPerSec,
		LatencyP95Ms:     latencies[1] * msPerSec,
		LatencyP99Ms:     latencies[2] * msPerSec,
		ClockAnomalies:   a.clockAnomalies,
	}
}
