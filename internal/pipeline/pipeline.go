// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/streampulse/internal/config"
)

// source is any event producer feeding the ingest queue.
type source interface {
	Run(ctx context.Context) error
}

// Pipeline wires the engine together: source → ingest queue → scheduler →
// aggregator → summary sink, with the depth reporter and optional metrics
// server running alongside. All accumulator state is owned by the
// aggregator instance, so independent pipelines never share state.
type Pipeline struct {
	cfg       *config.Config
	queue     *IngestQueue
	source    source
	scheduler *BatchScheduler
	sink      *SummarySink
	reporter  *DepthReporter
	metrics   *MetricsServer
	logger    *zap.Logger

	summaries chan BatchSummary
}

// New creates and wires up a new aggregation pipeline.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	initLogger := logger.Named("pipeline.init")
	initLogger.Debug("Creating pipeline components...")

	queue, err := NewIngestQueue(cfg.Engine.QueueCapacity)
	if err != nil {
		return nil, err
	}
	initLogger.Debug("Ingest queue created", zap.Int("capacity", queue.Cap()))

	const summaryBufferSize = 100
	summaries := make(chan BatchSummary, summaryBufferSize)

	var src source
	switch cfg.Source.Type {
	case config.SourceKafka:
		consumer, err := NewConsumer(cfg.Source.Kafka, queue, logger.Named("consumer"))
		if err != nil {
			initLogger.Error("Failed to create event source", zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrSourceCreationFailed, err)
		}
		src = consumer
	case config.SourceSynthetic:
		src = NewGenerator(cfg.Source.Synthetic, queue, logger.Named("generator"))
	default:
		return nil, fmt.Errorf("%w: %w", ErrSourceCreationFailed, config.ErrUnknownSourceType)
	}
	initLogger.Debug("Event source created", zap.String("type", cfg.Source.Type))

	aggregator, err := NewBatchAggregator(cfg.Engine, logger.Named("aggregator"))
	if err != nil {
		return nil, err
	}
	scheduler := NewBatchScheduler(cfg.Engine, queue, aggregator, summaries, logger.Named("scheduler"))
	sink := NewSummarySink(summaries, logger.Named("sink"))
	reporter := NewDepthReporter(cfg.Reporter, queue, logger.Named("reporter"))

	var metrics *MetricsServer
	if cfg.Metrics.Enabled {
		metrics = NewMetricsServer(cfg.Metrics.ListenAddr, logger.Named("metrics"))
	}

	p := &Pipeline{
		cfg:       cfg,
		queue:     queue,
		source:    src,
		scheduler: scheduler,
		sink:      sink,
		reporter:  reporter,
		metrics:   metrics,
		logger:    logger.Named("pipeline"),
		summaries: summaries,
	}

	initLogger.Info("Pipeline instance created successfully")
	return p, nil
}

// Run starts all pipeline components and waits for them to complete or
// context cancellation. On cancellation the source stops first by contract,
// the scheduler drains the queue and flushes the final partial batch, and
// the sink consumes every remaining summary before exiting.
func (p *Pipeline) Run(ctx context.Context) error {
	sugar := p.logger.Sugar()
	var wg sync.WaitGroup
	pipelineErr := make(chan error, 5) // source, scheduler, sink, reporter, metrics

	sugar.Info("Pipeline Run: Starting components...")

	wg.Add(4)
	go p.runSource(ctx, &wg, pipelineErr)
	go p.runScheduler(ctx, &wg, pipelineErr)
	go p.runSink(ctx, &wg, pipelineErr)
	go p.runReporter(ctx, &wg)

	if p.metrics != nil {
		wg.Add(1)
		go p.runMetrics(ctx, &wg, pipelineErr)
	}

	// Wait for context cancellation or the first error from any component
	var firstErr error
	select {
	case <-ctx.Done():
		sugar.Info("Pipeline Run: Context cancelled. Waiting for components to finish...")
		firstErr = ctx.Err()
	case err := <-pipelineErr:
		sugar.Errorw("Pipeline Run: Received error from a component, initiating shutdown...", zap.Error(err))
		firstErr = err
	}

	sugar.Debug("Pipeline Run: Waiting on WaitGroup...")
	wg.Wait()
	sugar.Info("Pipeline Run: All components finished.")

	if firstErr != nil && !errors.Is(firstErr, context.Canceled) {
		return firstErr
	}
	return nil
}

// QueueDepth exposes the current ingest queue depth, read-only.
func (p *Pipeline) QueueDepth() int {
	return p.queue.Len()
}

// runSource executes the event source in a goroutine.
func (p *Pipeline) runSource(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	p.logger.Debug("Starting source goroutine...")
	if err := p.source.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Event source exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrSourceRunFailed, err)
	} else {
		p.logger.Debug("Source goroutine finished")
	}
}

// runScheduler executes the batch scheduler in a goroutine. Closing the
// summaries channel here signals the sink that no summary will follow the
// shutdown flush.
func (p *Pipeline) runScheduler(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()
	defer func() {
		close(p.summaries)
		p.logger.Debug("Summaries channel closed")
	}()

	p.logger.Debug("Starting scheduler goroutine...")
	if err := p.scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Batch scheduler exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrSchedulerRunFailed, err)
	} else {
		p.logger.Debug("Scheduler goroutine finished")
	}
}

// runSink executes the summary sink in a goroutine.
func (p *Pipeline) runSink(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	p.logger.Debug("Starting sink goroutine...")
	if err := p.sink.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Summary sink exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrSinkRunFailed, err)
	} else {
		p.logger.Debug("Sink goroutine finished")
	}
}

// runReporter executes the queue depth reporter in a goroutine. Reporter
// failures are never fatal to the pipeline.
func (p *Pipeline) runReporter(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	p.logger.Debug("Starting reporter goroutine...")
	if err := p.reporter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Warn("Queue depth reporter exited with error", zap.Error(err))
	} else {
		p.logger.Debug("Reporter goroutine finished")
	}
}

// runMetrics executes the metrics server in a goroutine.
func (p *Pipeline) runMetrics(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	p.logger.Debug("Starting metrics server goroutine...")
	if err := p.metrics.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Metrics server exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrMetricsServerRunFailed, err)
	} else {
		p.logger.Debug("Metrics server goroutine finished")
	}
}
