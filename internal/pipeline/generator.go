package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/streampulse/internal/config"
	"github.com/sanspareilsmyn/streampulse/internal/event"
)

// Generator is the built-in synthetic event source: integer keys drawn
// uniformly from [1, keyCardinality], normally distributed values, and a
// short random pause between events. It communicates with the rest of the
// engine only through the ingest queue.
type Generator struct {
	cfg    config.SyntheticConfig
	queue  *IngestQueue
	rng    *rand.Rand
	logger *zap.Logger
}

// NewGenerator creates a synthetic source feeding the given queue.
func NewGenerator(cfg config.SyntheticConfig, queue *IngestQueue, logger *zap.Logger) *Generator {
	logger.Info("Synthetic generator initialized",
		zap.Int("key_cardinality", cfg.KeyCardinality),
		zap.Float64("mean_value", cfg.MeanValue),
		zap.Float64("value_stddev", cfg.ValueStdDev),
		zap.Duration("max_produce_delay", cfg.MaxProduceDelay),
	)
	return &Generator{
		cfg:    cfg,
		queue:  queue,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
}

// Run produces events until the context is cancelled. Put blocks when the
// queue is full; that backpressure is the intended throttle, so no pacing
// beyond the random pause is applied.
func (g *Generator) Run(ctx context.Context) error {
	sugar := g.logger.Sugar()
	sugar.Info("Starting synthetic generator loop...")
	defer sugar.Info("Synthetic generator loop stopped.")

	for {
		ev := event.NewFromInt(
			int64(g.rng.Intn(g.cfg.KeyCardinality))+1,
			g.cfg.MeanValue+g.rng.NormFloat64()*g.cfg.ValueStdDev,
			time.Now(),
		)

		if err := g.queue.Put(ctx, ev); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return context.Canceled
			}
			return err
		}

		pause := time.Duration(g.rng.Float64() * float64(g.cfg.MaxProduceDelay))
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return context.Canceled
		}
	}
}
