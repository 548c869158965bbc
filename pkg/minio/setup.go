package minio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/traceably/spanwrap/pkg/observability"
	"github.com/traceably/spanwrap/pkg/tracing"
)

// Logger is the logging contract this package expects.
//
//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=minio
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Minio is a traced object storage client. Object operations run inside
// storage spans carrying the bucket and key, and the client reconnects
// automatically when the connection health check fails.
type Minio struct {
	// Client is the underlying MinIO client, exposed for operations the
	// wrapper does not cover.
	Client *minio.Client

	cfg      Config
	logger   Logger
	runner   *tracing.Runner
	observer observability.Observer

	// mu protects Client across reconnects.
	mu sync.RWMutex

	// shutdownSignal stops the connection monitor.
	shutdownSignal chan struct{}

	// reconnectSignal triggers reconnection attempts.
	reconnectSignal chan error

	// bufferPool holds reusable buffers for large downloads.
	bufferPool *BufferPool
}

// BufferPool is a pool of bytes.Buffers reused across large object reads.
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

func (bp *BufferPool) Get() *bytes.Buffer {
	return bp.pool.Get().(*bytes.Buffer)
}

func (bp *BufferPool) Put(b *bytes.Buffer) {
	bp.pool.Put(b)
}

// NewClient connects to MinIO, validates the connection, and ensures the
// configured bucket exists. Operations made through the returned client are
// traced by runner.
func NewClient(cfg Config, logger Logger, runner *tracing.Runner) (*Minio, error) {
	client, err := connectToMinio(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to minio", err, map[string]interface{}{
			"endpoint": cfg.Connection.Endpoint,
			"bucket":   cfg.Connection.BucketName,
		})
		return nil, err
	}

	minioClient := &Minio{
		Client:          client,
		cfg:             cfg,
		logger:          logger,
		runner:          runner,
		shutdownSignal:  make(chan struct{}),
		reconnectSignal: make(chan error),
		bufferPool:      NewBufferPool(),
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := minioClient.validateConnection(timeoutCtx); err != nil {
		logger.Error("failed to validate minio connection", err, map[string]interface{}{
			"endpoint": cfg.Connection.Endpoint,
		})
		return nil, err
	}
	if err := minioClient.ensureBucketExists(timeoutCtx); err != nil {
		logger.Error("failed to verify bucket", err, map[string]interface{}{
			"endpoint": cfg.Connection.Endpoint,
			"bucket":   cfg.Connection.BucketName,
		})
		return nil, err
	}

	return minioClient, nil
}

// WithObserver attaches an operation observer and returns the client for
// chaining.
func (m *Minio) WithObserver(observer observability.Observer) *Minio {
	m.observer = observer
	return m
}

// monitorConnection periodically checks connectivity and signals the retry
// loop when the health check fails. Runs as a goroutine.
func (m *Minio) monitorConnection(ctx context.Context) {
	defer close(m.reconnectSignal)
	ticker := time.NewTicker(connectionHealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := m.validateConnection(checkCtx)
			cancel()

			if err != nil {
				m.logger.Error("MinIO connection health check failed", err, map[string]interface{}{
					"endpoint": m.cfg.Connection.Endpoint,
				})

				select {
				case m.reconnectSignal <- err:
				default: // a reconnect is already pending
				}
			}

		case <-m.shutdownSignal:
			return

		case <-ctx.Done():
			return
		}
	}
}

// retryConnection re-establishes the client when the monitor reports a
// connection problem. Runs as a goroutine.
func (m *Minio) retryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-m.shutdownSignal:
			m.logger.Info("Stopping MinIO connection retry loop due to shutdown signal", nil, nil)
			return

		case <-ctx.Done():
			m.logger.Info("Stopping MinIO connection retry loop due to context cancellation", nil, nil)
			return

		case err := <-m.reconnectSignal:
			m.logger.Warn("MinIO connection issue detected, attempting reconnection", err, map[string]interface{}{
				"endpoint": m.cfg.Connection.Endpoint,
			})

		reconnectLoop:
			for {
				select {
				case <-m.shutdownSignal:
					m.logger.Info("Stopping MinIO connection retry loop during reconnection due to shutdown signal", nil, nil)
					return

				case <-ctx.Done():
					m.logger.Info("Stopping MinIO connection retry loop during reconnection due to context cancellation", nil, nil)
					return

				default:
					newClient, err := connectToMinio(m.cfg, m.logger)
					if err != nil {
						m.logger.Error("MinIO reconnection failed", err, map[string]interface{}{
							"endpoint": m.cfg.Connection.Endpoint,
						})
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					m.mu.Lock()
					m.Client = newClient
					m.mu.Unlock()

					ctxReconnect, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					err = m.validateConnection(ctxReconnect)
					if err != nil {
						cancel()
						m.logger.Error("MinIO connection validation failed", err, nil)
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					err = m.ensureBucketExists(ctxReconnect)
					cancel()
					if err != nil {
						m.logger.Error("Failed to verify bucket after reconnection", err, nil)
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					m.logger.Info("Successfully reconnected to MinIO", nil, map[string]interface{}{
						"endpoint": m.cfg.Connection.Endpoint,
						"bucket":   m.cfg.Connection.BucketName,
					})
					continue outerLoop
				}
			}
		}
	}
}

// connectToMinio creates a MinIO client from cfg.
func connectToMinio(cfg Config, logger Logger) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint cannot be empty")
	}

	logger.Info("Connecting to MinIO", nil, map[string]interface{}{
		"endpoint": cfg.Connection.Endpoint,
		"region":   cfg.Connection.Region,
		"secure":   cfg.Connection.UseSSL,
	})

	return minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
}

// validateConnection verifies connectivity by listing buckets.
func (m *Minio) validateConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	m.mu.RLock()
	client := m.Client
	m.mu.RUnlock()

	_, err := client.ListBuckets(ctx)
	return err
}

// ensureBucketExists creates the configured bucket when it is missing.
func (m *Minio) ensureBucketExists(ctx context.Context) error {
	bucketName := m.cfg.Connection.BucketName
	if bucketName == "" {
		return fmt.Errorf("bucket name is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	m.mu.RLock()
	client := m.Client
	m.mu.RUnlock()

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists, bucket: %v, err: %w", bucketName, err)
	}

	if !exists {
		m.logger.Info("Bucket does not exist, creating it", nil, map[string]interface{}{
			"bucket": bucketName,
			"region": m.cfg.Connection.Region,
		})

		err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
			Region: m.cfg.Connection.Region,
		})
		if err != nil {
			return err
		}

		m.logger.Info("Successfully created bucket", nil, map[string]interface{}{
			"bucket": bucketName,
		})
	}

	return nil
}
