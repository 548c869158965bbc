package minio

import (
	"time"

	"github.com/traceably/spanwrap/pkg/observability"
)

const component = "minio"

// observeOperation notifies the observer about an operation if one is
// configured.
//
// Notes:
//   - resource: bucket name
//   - subResource: object key
func (m *Minio) observeOperation(operation, objectKey string, duration time.Duration, err error, size int64) {
	if m == nil || m.observer == nil {
		return
	}

	m.observer.ObserveOperation(observability.OperationContext{
		Component:   component,
		Operation:   operation,
		Resource:    m.cfg.Connection.BucketName,
		SubResource: objectKey,
		Duration:    duration,
		Error:       err,
		Size:        size,
	})
}
