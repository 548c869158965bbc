package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/traceably/spanwrap/pkg/tracing"
)

// objectAttributes builds the storage attributes recorded on object spans.
func (m *Minio) objectAttributes(objectKey string) tracing.Attributes {
	return tracing.Attributes{
		"storage.system": "minio",
		"storage.bucket": m.cfg.Connection.BucketName,
		"storage.key":    objectKey,
	}
}

// Put uploads an object to the configured bucket inside a "minio.put" span.
// size, when provided and non-zero, lets the client skip buffering to
// determine the object length. Returns the number of bytes stored.
func (m *Minio) Put(ctx context.Context, objectKey string, reader io.Reader, size ...int64) (int64, error) {
	actualSize := unknownSize
	if len(size) > 0 && size[0] != 0 {
		actualSize = size[0]
	}

	start := time.Now()
	written, err := tracing.RunValue(m.runner, ctx, "minio.put", m.objectAttributes(objectKey), func(ctx context.Context) (int64, error) {
		m.mu.RLock()
		client := m.Client
		m.mu.RUnlock()

		response, err := client.PutObject(ctx, m.cfg.Connection.BucketName, objectKey, reader, actualSize, minio.PutObjectOptions{
			PartSize: m.cfg.UploadConfig.MinPartSize,
		})
		if err != nil {
			return 0, err
		}
		return response.Size, nil
	})
	m.observeOperation("put", objectKey, time.Since(start), err, written)
	return written, err
}

// Get retrieves an object inside a "minio.fetch" span and returns its
// contents. Small objects are read into a direct allocation; larger ones go
// through the buffer pool.
func (m *Minio) Get(ctx context.Context, objectKey string) ([]byte, error) {
	var data []byte

	start := time.Now()
	err := m.runner.Fetch(ctx, component, m.objectAttributes(objectKey), func(ctx context.Context) error {
		m.mu.RLock()
		client := m.Client
		m.mu.RUnlock()

		reader, err := client.GetObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.GetObjectOptions{})
		if err != nil {
			return fmt.Errorf("failed to get object: %w", err)
		}
		defer func(reader io.ReadCloser) {
			if err := reader.Close(); err != nil {
				m.logger.Error("failed to close object reader", err, map[string]interface{}{
					"key": objectKey,
				})
			}
		}(reader)

		objectInfo, err := reader.Stat()
		if err != nil {
			return fmt.Errorf("failed to get object stats: %w", err)
		}
		size := objectInfo.Size

		if size < m.cfg.DownloadConfig.SmallFileThreshold {
			data = make([]byte, size)
			if _, err := io.ReadFull(reader, data); err != nil {
				return fmt.Errorf("failed to read object data: %w", err)
			}
			return nil
		}

		bufferSize := min(size, int64(m.cfg.DownloadConfig.InitialBufferSize))
		buffer := m.bufferPool.Get()
		if buffer.Cap() < int(bufferSize) {
			buffer.Grow(int(bufferSize) - buffer.Cap())
		}
		buffer.Reset()

		if _, err := io.Copy(buffer, reader); err != nil {
			m.bufferPool.Put(buffer)
			return fmt.Errorf("failed to read large object: %w", err)
		}

		// Copy out so buffer reuse cannot clobber the returned slice.
		data = make([]byte, buffer.Len())
		copy(data, buffer.Bytes())
		m.bufferPool.Put(buffer)
		return nil
	})
	m.observeOperation("get", objectKey, time.Since(start), err, int64(len(data)))

	if err != nil {
		return nil, err
	}
	return data, nil
}

// Stat returns object metadata inside a "minio.stat" span.
func (m *Minio) Stat(ctx context.Context, objectKey string) (minio.ObjectInfo, error) {
	start := time.Now()
	info, err := tracing.RunValue(m.runner, ctx, "minio.stat", m.objectAttributes(objectKey), func(ctx context.Context) (minio.ObjectInfo, error) {
		m.mu.RLock()
		client := m.Client
		m.mu.RUnlock()
		return client.StatObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.StatObjectOptions{})
	})
	m.observeOperation("stat", objectKey, time.Since(start), err, info.Size)
	return info, err
}

// Remove deletes an object inside a "minio.remove" span.
func (m *Minio) Remove(ctx context.Context, objectKey string) error {
	start := time.Now()
	err := m.runner.Run(ctx, "minio.remove", m.objectAttributes(objectKey), func(ctx context.Context) error {
		m.mu.RLock()
		client := m.Client
		m.mu.RUnlock()
		return client.RemoveObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.RemoveObjectOptions{})
	})
	m.observeOperation("remove", objectKey, time.Since(start), err, 0)
	return err
}
