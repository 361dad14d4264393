package pipeline

import (
	"context"

	"go.uber.org/zap"
)

// SummarySink receives one BatchSummary per flush, logs it, and mirrors it
// to the Prometheus gauges. The engine is agnostic to what a sink does with
// the summary; this one is the default reporting collaborator.
type SummarySink struct {
	input  <-chan BatchSummary
	logger *zap.Logger
}

// NewSummarySink creates a sink draining the given summary channel.
func NewSummarySink(input <-chan BatchSummary, logger *zap.Logger) *SummarySink {
	return &SummarySink{input: input, logger: logger}
}

// Run consumes summaries until the channel closes or the context is
// cancelled.
func (s *SummarySink) Run(ctx context.Context) error {
	sugar := s.logger.Sugar()
	sugar.Info("Starting summary sink loop...")
	defer sugar.Info("Summary sink loop stopped.")

	for {
		select {
		case summary, ok := <-s.input:
			if !ok {
				sugar.Info("Summary channel closed.")
				return nil
			}
			s.publish(summary)

		case <-ctx.Done():
			// The scheduler closes the channel after its shutdown flush;
			// keep draining until then so the final summary is delivered.
			for summary := range s.input {
				s.publish(summary)
			}
			return ctx.Err()
		}
	}
}

// publish logs the summary and updates the Prometheus metrics.
func (s *SummarySink) publish(summary BatchSummary) {
	batchesFlushed.Inc()
	eventsProcessed.Add(float64(summary.BatchSize))
	clockAnomalies.Set(float64(summary.ClockAnomalies))
	distinctEstimate.Set(summary.DistinctEstimate)
	valueMean.Set(summary.Mean)
	valueVariance.Set(summary.Variance)
	latencyQuantileMs.WithLabelValues("0.5").Set(summary.LatencyP50Ms)
	latencyQuantileMs.WithLabelValues("0.95").Set(summary.LatencyP95Ms)
	latencyQuantileMs.WithLabelValues("0.99").Set(summary.LatencyP99Ms)

	s.logger.Sugar().Infow("Batch summary",
		zap.Int("batch_size", summary.BatchSize),
		zap.Uint64("events_total", summary.EventsTotal),
		zap.Float64("distinct_estimate", summary.DistinctEstimate),
		zap.String("probe_key", summary.ProbeKey),
		zap.Uint64("probe_key_estimate", summary.ProbeKeyEstimate),
		zap.Any("top_buckets", summary.TopBuckets),
		zap.Float64("mean", summary.Mean),
		zap.Float64("variance", summary.Variance),
		zap.Float64("latency_p50_ms", summary.LatencyP50Ms),
		zap.Float64("latency_p95_ms", summary.LatencyP95Ms),
		zap.Float64("latency_p99_ms", summary.LatencyP99Ms),
		zap.Uint64("clock_anomalies", summary.ClockAnomalies),
	)
}
