package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/streampulse/internal/config"
	"github.com/sanspareilsmyn/streampulse/internal/event"
)

type kafkaZapLogger struct {
	log *zap.Logger
}

func (l kafkaZapLogger) Printf(msg string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(msg, args...))
}

type kafkaZapErrorLogger struct {
	log *zap.Logger
}

func (l kafkaZapErrorLogger) Printf(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// Consumer is the Kafka-backed event source: it reads JSON events from a
// topic, decodes them, and puts them on the ingest queue. Like any producer
// it is subject to the queue's backpressure; a full queue stalls the fetch
// loop, which in turn stalls the consumer group offset.
type Consumer struct {
	reader *kafka.Reader
	queue  *IngestQueue
	cfg    config.KafkaConfig
	logger *zap.Logger
}

// NewConsumer creates and configures a Kafka event source.
func NewConsumer(cfg config.KafkaConfig, queue *IngestQueue, logger *zap.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		logger.Error("Kafka configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
			zap.String("group_id", cfg.GroupID),
		)
		return nil, ErrInvalidKafkaConfig
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		Logger:      kafkaZapLogger{logger.Named("kafka-reader").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger: kafkaZapErrorLogger{logger.Named("kafka-reader-error").WithOptions(zap.AddCallerSkip(1))},
	})

	logger.Info("Kafka event source created",
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID),
		zap.Strings("brokers", cfg.Brokers),
	)

	return &Consumer{
		reader: r,
		queue:  queue,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run fetches, decodes, and enqueues messages until the context is
// cancelled or an unrecoverable fetch error occurs. Undecodable messages
// are logged and skipped; they never reach the queue.
func (c *Consumer) Run(ctx context.Context) error {
	sugar := c.logger.Sugar()
	sugar.Info("Starting Kafka event source loop...")

	defer func() {
		if err := c.reader.Close(); err != nil {
			sugar.Errorw("Failed to close Kafka reader cleanly", zap.Error(err))
		}
		sugar.Info("Kafka event source loop stopped.")
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return context.Canceled
			}
			c.logger.Error("Error fetching message from Kafka", zap.Error(err))
			return fmt.Errorf("%w: %w", ErrKafkaFetchFailed, err)
		}

		ev, err := event.ParseJSON(m.Value)
		if err != nil {
			sugar.Warnw("Failed to parse event, skipping", zap.Error(err))
			continue
		}

		if err := c.queue.Put(ctx, ev); err != nil {
			return context.Canceled
		}
	}
}
