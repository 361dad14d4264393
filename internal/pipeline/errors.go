package pipeline

import "errors"

var (
	ErrInvalidQueueCapacity   = errors.New("ingest queue capacity must be positive")
	ErrInvalidKafkaConfig     = errors.New("invalid Kafka configuration provided")
	ErrKafkaFetchFailed       = errors.New("failed to fetch message from Kafka")
	ErrSourceCreationFailed   = errors.New("failed to create event source")
	ErrSourceRunFailed        = errors.New("event source component failed")
	ErrSchedulerRunFailed     = errors.New("batch scheduler component failed")
	ErrSinkRunFailed          = errors.New("summary sink component failed")
	ErrMetricsServerRunFailed = errors.New("metrics server component failed")
)
