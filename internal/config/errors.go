package config

import "errors"

var (
	ErrReadingConfigFile       = errors.New("failed to read config file")
	ErrUnmarshallingConfig     = errors.New("failed to unmarshal config")
	ErrConfigFileMissing       = errors.New("config file not found")
	ErrInvalidQueueCapacity    = errors.New("engine queueCapacity must be positive")
	ErrInvalidBatchSize        = errors.New("engine batchSize must be positive")
	ErrInvalidMaxDelay         = errors.New("engine maxDelay must be positive")
	ErrInvalidWindowCapacity   = errors.New("engine window capacities must be positive")
	ErrInvalidSketchDimensions = errors.New("engine frequency sketch dimensions must be positive")
	ErrInvalidTopBuckets       = errors.New("engine topBuckets must be positive")
	ErrInvalidKeyCardinality   = errors.New("synthetic keyCardinality must be positive")
	ErrEmptyKafkaBrokers       = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic         = errors.New("kafka topic cannot be empty")
	ErrEmptyKafkaGroupID       = errors.New("kafka groupID cannot be empty")
	ErrUnknownSourceType       = errors.New("unknown source type")
	ErrInvalidReporterInterval = errors.New("reporter interval must be positive")
)
