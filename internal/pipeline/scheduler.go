package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/streampulse/internal/config"
	"github.com/sanspareilsmyn/streampulse/internal/event"
)

// BatchScheduler drains the ingest queue into an in-memory buffer and hands
// the buffer to the aggregator when either trigger fires: buffer size
// reaching batchSize (bounds per-flush cost) or maxDelay elapsing since the
// buffer's first event (bounds worst-case latency under sparse traffic). A
// queue-read timeout with a non-empty buffer also flushes, so a stalled
// producer never strands buffered events.
type BatchScheduler struct {
	batchSize  int
	maxDelay   time.Duration
	queue      *IngestQueue
	aggregator *BatchAggregator
	output     chan<- BatchSummary
	logger     *zap.Logger

	buffer    []event.Event
	startedAt time.Time
	now       func() time.Time
}

// NewBatchScheduler creates a scheduler wiring the queue to the aggregator.
func NewBatchScheduler(cfg config.EngineConfig, queue *IngestQueue, aggregator *BatchAggregator, output chan<- BatchSummary, logger *zap.Logger) *BatchScheduler {
	logger.Info("Batch scheduler initialized",
		zap.Int("batch_size", cfg.BatchSize),
		zap.Duration("max_delay", cfg.MaxDelay),
	)
	return &BatchScheduler{
		batchSize:  cfg.BatchSize,
		maxDelay:   cfg.MaxDelay,
		queue:      queue,
		aggregator: aggregator,
		output:     output,
		buffer:     make([]event.Event, 0, cfg.BatchSize),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the wall clock, for deterministic tests.
func (s *BatchScheduler) WithClock(now func() time.Time) *BatchScheduler {
	s.now = now
	return s
}

// Run executes the accumulate/flush loop until the context is cancelled.
// On cancellation it drains whatever is still queued, flushes the final
// partial batch, and returns ctx.Err().
func (s *BatchScheduler) Run(ctx context.Context) error {
	sugar := s.logger.Sugar()
	sugar.Info("Starting batch scheduler loop...")
	defer sugar.Info("Batch scheduler loop stopped.")

	for {
		select {
		case <-ctx.Done():
			s.drainAndFlush()
			return ctx.Err()
		default:
		}

		ev, ok := s.queue.Take(ctx, s.maxDelay)
		if !ok {
			// Timed out. Flush a non-empty buffer so sparse traffic still
			// surfaces within maxDelay; an empty buffer just loops.
			if len(s.buffer) > 0 {
				s.flush("timeout")
			}
			continue
		}

		if len(s.buffer) == 0 {
			s.startedAt = s.now()
		}
		s.buffer = append(s.buffer, ev)

		switch {
		case len(s.buffer) >= s.batchSize:
			s.flush("size")
		case s.now().Sub(s.startedAt) >= s.maxDelay:
			s.flush("delay")
		}
	}
}

// drainAndFlush empties the queue without blocking and flushes one final
// partial batch. Part of the cooperative shutdown contract: producers are
// already stopped when this runs.
func (s *BatchScheduler) drainAndFlush() {
	for {
		ev, ok := s.queue.TryTake()
		if !ok {
			break
		}
		s.buffer = append(s.buffer, ev)
	}
	if len(s.buffer) > 0 {
		s.flush("shutdown")
	}
}

func (s *BatchScheduler) flush(trigger string) {
	summary := s.aggregator.Aggregate(s.buffer)
	s.logger.Debug("Flushed batch",
		zap.String("trigger", trigger),
		zap.Int("batch_size", summary.BatchSize),
		zap.Uint64("events_total", summary.EventsTotal),
	)

	select {
	case s.output <- summary:
	default:
		s.logger.Sugar().Warnw("Summary channel full, dropping summary",
			zap.String("trigger", trigger),
			zap.Int("batch_size", summary.BatchSize),
		)
	}

	s.buffer = s.buffer[:0]
	s.startedAt = time.Time{}
}
