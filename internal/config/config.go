package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SourceSynthetic = "synthetic"
	SourceKafka     = "kafka"
)

const (
	defaultQueueCapacity         = 10
	defaultBatchSize             = 100
	defaultMaxDelay              = 500 * time.Millisecond
	defaultValueWindowCapacity   = 1000
	defaultLatencyWindowCapacity = 1000
	defaultCardinalityPrecision  = 10
	defaultFrequencyWidth        = 1000
	defaultFrequencyDepth        = 5
	defaultTopBuckets            = 3
	defaultProbeKey              = "123"

	defaultSourceType       = SourceSynthetic
	defaultKeyCardinality   = 5000
	defaultMeanValue        = 50.0
	defaultValueStdDev      = 10.0
	defaultMaxProduceDelay  = 20 * time.Millisecond
	defaultKafkaGroupID     = "streampulse-default-group"
	defaultReporterInterval = 5 * time.Second
	defaultMetricsEnabled   = false
	defaultMetricsAddr      = ":9090"

	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogFileEnabled = false
	defaultLogDirectory   = "log"
	defaultLogFilename    = "app.log"
	defaultLogMaxSizeMB   = 100
	defaultLogMaxBackups  = 3
	defaultLogMaxAgeDays  = 7
	defaultLogCompress    = false

	// Environment variable prefix
	envPrefix = "STREAMPULSE"
)

type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Source   SourceConfig   `mapstructure:"source"`
	Reporter ReporterConfig `mapstructure:"reporter"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// EngineConfig holds the aggregation engine knobs: queue and batch sizing,
// accumulator dimensions, and the probe key reported in every summary.
type EngineConfig struct {
	QueueCapacity         int           `mapstructure:"queueCapacity"`
	BatchSize             int           `mapstructure:"batchSize"`
	MaxDelay              time.Duration `mapstructure:"maxDelay"`
	ValueWindowCapacity   int           `mapstructure:"valueWindowCapacity"`
	LatencyWindowCapacity int           `mapstructure:"latencyWindowCapacity"`
	CardinalityPrecision  int           `mapstructure:"cardinalityPrecision"`
	FrequencyWidth        int           `mapstructure:"frequencyWidth"`
	FrequencyDepth        int           `mapstructure:"frequencyDepth"`
	TopBuckets            int           `mapstructure:"topBuckets"`
	ProbeKey              string        `mapstructure:"probeKey"`
}

// SourceConfig selects and configures the event producer feeding the queue.
type SourceConfig struct {
	Type      string          `mapstructure:"type"` // "synthetic" or "kafka"
	Synthetic SyntheticConfig `mapstructure:"synthetic"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

// SyntheticConfig shapes the built-in random generator: keys are drawn
// uniformly from [1, keyCardinality], values from N(meanValue, valueStdDev),
// and the inter-event pause is uniform in [0, maxProduceDelay].
type SyntheticConfig struct {
	KeyCardinality  int           `mapstructure:"keyCardinality"`
	MeanValue       float64       `mapstructure:"meanValue"`
	ValueStdDev     float64       `mapstructure:"valueStdDev"`
	MaxProduceDelay time.Duration `mapstructure:"maxProduceDelay"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupID"`
}

// ReporterConfig controls the periodic queue-depth report.
type ReporterConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// MetricsConfig controls the Prometheus /metrics listener.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listenAddr"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	// Set default values before reading config source .yaml
	setDefaults(v)

	// Read configuration from file (error if mandatory file is missing)
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal the configuration
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a Config carrying every default value, bypassing the
// config file requirement. Used by tests and programmatic embedders.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg) // pure defaults cannot fail to unmarshal
	return &cfg
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.queueCapacity", defaultQueueCapacity)
	v.SetDefault("engine.batchSize", defaultBatchSize)
	v.SetDefault("engine.maxDelay", defaultMaxDelay)
	v.SetDefault("engine.valueWindowCapacity", defaultValueWindowCapacity)
	v.SetDefault("engine.latencyWindowCapacity", defaultLatencyWindowCapacity)
	v.SetDefault("engine.cardinalityPrecision", defaultCardinalityPrecision)
	v.SetDefault("engine.frequencyWidth", defaultFrequencyWidth)
	v.SetDefault("engine.frequencyDepth", defaultFrequencyDepth)
	v.SetDefault("engine.topBuckets", defaultTopBuckets)
	v.SetDefault("engine.probeKey", defaultProbeKey)
	v.SetDefault("source.type", defaultSourceType)
	v.SetDefault("source.synthetic.keyCardinality", defaultKeyCardinality)
	v.SetDefault("source.synthetic.meanValue", defaultMeanValue)
	v.SetDefault("source.synthetic.valueStdDev", defaultValueStdDev)
	v.SetDefault("source.synthetic.maxProduceDelay", defaultMaxProduceDelay)
	v.SetDefault("source.kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("reporter.interval", defaultReporterInterval)
	v.SetDefault("metrics.enabled", defaultMetricsEnabled)
	v.SetDefault("metrics.listenAddr", defaultMetricsAddr)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Engine.QueueCapacity <= 0 {
		return ErrInvalidQueueCapacity
	}
	if cfg.Engine.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if cfg.Engine.MaxDelay <= 0 {
		return ErrInvalidMaxDelay
	}
	if cfg.Engine.ValueWindowCapacity <= 0 || cfg.Engine.LatencyWindowCapacity <= 0 {
		return ErrInvalidWindowCapacity
	}
	if cfg.Engine.FrequencyWidth <= 0 || cfg.Engine.FrequencyDepth <= 0 {
		return ErrInvalidSketchDimensions
	}
	if cfg.Engine.TopBuckets <= 0 {
		return ErrInvalidTopBuckets
	}

	switch cfg.Source.Type {
	case SourceSynthetic:
		if cfg.Source.Synthetic.KeyCardinality <= 0 {
			return ErrInvalidKeyCardinality
		}
	case SourceKafka:
		if len(cfg.Source.Kafka.Brokers) == 0 {
			return ErrEmptyKafkaBrokers
		}
		if cfg.Source.Kafka.Topic == "" {
			return ErrEmptyKafkaTopic
		}
		if cfg.Source.Kafka.GroupID == "" {
			return ErrEmptyKafkaGroupID
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSourceType, cfg.Source.Type)
	}

	if cfg.Reporter.Interval <= 0 {
		return ErrInvalidReporterInterval
	}
	return nil
}
