package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/traceably/spanwrap/pkg/observability"
	"github.com/traceably/spanwrap/pkg/tracing"
)

// Logger is the logging contract this package expects.
//
//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=kafka
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// KafkaClient is a traced Kafka client. Depending on the configuration it
// holds a writer (producer) or a reader (consumer); publishes run inside
// messaging spans and carry the trace context in the message headers.
type KafkaClient struct {
	cfg      Config
	logger   Logger
	runner   *tracing.Runner
	observer observability.Observer

	writer *kafka.Writer
	reader *kafka.Reader

	// mu protects writer and reader.
	mu sync.RWMutex

	// shutdownSignal is closed when the client is being shut down.
	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// NewClient builds a Kafka client from cfg, applying defaults for unset
// tuning fields and wiring TLS and SASL when enabled. Consumers get a reader
// with the configured group, producers a writer with least-bytes balancing.
func NewClient(cfg Config, logger Logger, runner *tracing.Runner) (*KafkaClient, error) {
	if cfg.MinBytes == 0 {
		cfg.MinBytes = DefaultMinBytes
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	if cfg.CommitInterval == 0 {
		cfg.CommitInterval = DefaultCommitInterval
	}
	if cfg.StartOffset == 0 {
		cfg.StartOffset = DefaultStartOffset
	}
	if cfg.Partition == 0 {
		cfg.Partition = DefaultPartition
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = DefaultRequiredAcks
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	k := &KafkaClient{
		cfg:            cfg,
		logger:         logger,
		runner:         runner,
		shutdownSignal: make(chan struct{}),
	}

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	var mechanism sasl.Mechanism
	if cfg.SASL.Enabled {
		mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	if cfg.IsConsumer {
		k.reader = createReader(cfg, logger, tlsConfig, mechanism)
		logger.Info("Kafka consumer initialized", nil, map[string]interface{}{
			"topic":    cfg.Topic,
			"group_id": cfg.GroupID,
		})
	} else {
		k.writer = createWriter(cfg, logger, tlsConfig, mechanism)
		logger.Info("Kafka producer initialized", nil, map[string]interface{}{
			"topic": cfg.Topic,
		})
	}

	return k, nil
}

// WithObserver attaches an operation observer and returns the client for
// chaining.
func (k *KafkaClient) WithObserver(observer observability.Observer) *KafkaClient {
	k.observer = observer
	return k
}

// createErrorLogger routes kafka-go's internal errors through the package
// logger.
func createErrorLogger(logger Logger) kafka.LoggerFunc {
	return kafka.LoggerFunc(func(msg string, args ...interface{}) {
		formattedMsg := msg
		if len(args) > 0 {
			formattedMsg = fmt.Sprintf(msg, args...)
		}
		logger.Error("Kafka internal error", nil, map[string]interface{}{
			"error": formattedMsg,
		})
	})
}

// createWriter creates a Kafka writer with the given configuration.
func createWriter(cfg Config, logger Logger, tlsConfig *tls.Config, mechanism sasl.Mechanism) *kafka.Writer {
	writerConfig := kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: cfg.RequiredAcks,
		ErrorLogger:  createErrorLogger(logger),
	}

	if cfg.Async {
		writerConfig.Async = true
		writerConfig.BatchSize = cfg.BatchSize
		writerConfig.BatchTimeout = cfg.BatchTimeout
	}

	switch cfg.CompressionCodec {
	case "gzip":
		writerConfig.CompressionCodec = &compress.GzipCodec
	case "snappy":
		writerConfig.CompressionCodec = &compress.SnappyCodec
	case "lz4":
		writerConfig.CompressionCodec = &compress.Lz4Codec
	case "zstd":
		writerConfig.CompressionCodec = &compress.ZstdCodec
	}

	writerConfig.Dialer = &kafka.Dialer{
		TLS:           tlsConfig,
		SASLMechanism: mechanism,
	}

	return kafka.NewWriter(writerConfig)
}

// createReader creates a Kafka reader with the given configuration.
func createReader(cfg Config, logger Logger, tlsConfig *tls.Config, mechanism sasl.Mechanism) *kafka.Reader {
	readerConfig := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: cfg.StartOffset,
		ErrorLogger: createErrorLogger(logger),
	}

	if cfg.EnableAutoCommit {
		readerConfig.CommitInterval = cfg.CommitInterval
	} else {
		readerConfig.CommitInterval = 0
	}

	// Partition and GroupID are mutually exclusive in kafka-go.
	if cfg.GroupID == "" && cfg.Partition != -1 {
		readerConfig.Partition = cfg.Partition
	}

	readerConfig.Dialer = &kafka.Dialer{
		TLS:           tlsConfig,
		SASLMechanism: mechanism,
	}

	return kafka.NewReader(readerConfig)
}

// createTLSConfig creates a TLS configuration from the provided config.
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// createSASLMechanism creates a SASL mechanism from the provided config.
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}

// GracefulShutdown closes the writer or reader, at most once.
func (k *KafkaClient) GracefulShutdown() error {
	var err error
	k.closeShutdownOnce.Do(func() {
		close(k.shutdownSignal)

		k.mu.Lock()
		defer k.mu.Unlock()

		if k.writer != nil {
			if closeErr := k.writer.Close(); closeErr != nil {
				k.logger.Error("error in closing kafka writer", closeErr, nil)
				err = closeErr
			}
		}
		if k.reader != nil {
			if closeErr := k.reader.Close(); closeErr != nil {
				k.logger.Error("error in closing kafka reader", closeErr, nil)
				err = closeErr
			}
		}
	})
	return err
}
