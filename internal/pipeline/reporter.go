package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/streampulse/internal/config"
)

// DepthReporter periodically logs the ingest queue depth and mirrors it to
// Prometheus. It reads only Len/Cap on the queue; it never touches
// accumulator state.
type DepthReporter struct {
	interval time.Duration
	queue    *IngestQueue
	logger   *zap.Logger
}

// NewDepthReporter creates a reporter observing the given queue.
func NewDepthReporter(cfg config.ReporterConfig, queue *IngestQueue, logger *zap.Logger) *DepthReporter {
	return &DepthReporter{
		interval: cfg.Interval,
		queue:    queue,
		logger:   logger,
	}
}

// Run reports on every tick until the context is cancelled.
func (r *DepthReporter) Run(ctx context.Context) error {
	sugar := r.logger.Sugar()
	sugar.Infow("Starting queue depth reporter...", "interval", r.interval)
	defer sugar.Info("Queue depth reporter stopped.")

	queueCapacity.Set(float64(r.queue.Cap()))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			depth := r.queue.Len()
			queueDepth.Set(float64(depth))
			sugar.Infow("Queue depth",
				zap.Int("depth", depth),
				zap.Int("capacity", r.queue.Cap()),
			)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
