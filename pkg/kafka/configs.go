package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// Defaults applied by NewClient when the corresponding Config field is zero.
const (
	DefaultMinBytes       = 1
	DefaultMaxBytes       = 10e6 // 10MB
	DefaultMaxWait        = 500 * time.Millisecond
	DefaultCommitInterval = time.Second
	DefaultStartOffset    = kafka.FirstOffset
	DefaultPartition      = -1
	DefaultRequiredAcks   = int(kafka.RequireOne)
	DefaultBatchSize      = 100
	DefaultBatchTimeout   = time.Second
	DefaultMaxAttempts    = 3
	DefaultWriteTimeout   = 10 * time.Second
)

type Config struct {
	Brokers []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" envconfig:"KAFKA_TOPIC"`
	GroupID string   `yaml:"group_id" envconfig:"KAFKA_GROUP_ID"`

	// IsConsumer selects whether the client opens a reader or a writer.
	IsConsumer bool `yaml:"is_consumer" envconfig:"KAFKA_IS_CONSUMER"`

	// Writer settings.
	RequiredAcks     int           `yaml:"required_acks" envconfig:"KAFKA_REQUIRED_ACKS"`
	Async            bool          `yaml:"async" envconfig:"KAFKA_ASYNC"`
	BatchSize        int           `yaml:"batch_size" envconfig:"KAFKA_BATCH_SIZE"`
	BatchTimeout     time.Duration `yaml:"batch_timeout" envconfig:"KAFKA_BATCH_TIMEOUT"`
	MaxAttempts      int           `yaml:"max_attempts" envconfig:"KAFKA_MAX_ATTEMPTS"`
	WriteTimeout     time.Duration `yaml:"write_timeout" envconfig:"KAFKA_WRITE_TIMEOUT"`
	CompressionCodec string        `yaml:"compression_codec" envconfig:"KAFKA_COMPRESSION_CODEC"`

	// Reader settings.
	MinBytes         int           `yaml:"min_bytes" envconfig:"KAFKA_MIN_BYTES"`
	MaxBytes         int           `yaml:"max_bytes" envconfig:"KAFKA_MAX_BYTES"`
	MaxWait          time.Duration `yaml:"max_wait" envconfig:"KAFKA_MAX_WAIT"`
	StartOffset      int64         `yaml:"start_offset" envconfig:"KAFKA_START_OFFSET"`
	Partition        int           `yaml:"partition" envconfig:"KAFKA_PARTITION"`
	EnableAutoCommit bool          `yaml:"enable_auto_commit" envconfig:"KAFKA_ENABLE_AUTO_COMMIT"`
	CommitInterval   time.Duration `yaml:"commit_interval" envconfig:"KAFKA_COMMIT_INTERVAL"`

	TLS  TLSConfig
	SASL SASLConfig
}

type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" envconfig:"KAFKA_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" envconfig:"KAFKA_TLS_CA_CERT_PATH"`
	ClientCertPath     string `yaml:"client_cert_path" envconfig:"KAFKA_TLS_CLIENT_CERT_PATH"`
	ClientKeyPath      string `yaml:"client_key_path" envconfig:"KAFKA_TLS_CLIENT_KEY_PATH"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" envconfig:"KAFKA_TLS_INSECURE_SKIP_VERIFY"`
}

type SASLConfig struct {
	Enabled   bool   `yaml:"enabled" envconfig:"KAFKA_SASL_ENABLED"`
	Mechanism string `yaml:"mechanism" envconfig:"KAFKA_SASL_MECHANISM"`
	Username  string `yaml:"username" envconfig:"KAFKA_SASL_USERNAME"`
	Password  string `yaml:"password" envconfig:"KAFKA_SASL_PASSWORD"`
}
