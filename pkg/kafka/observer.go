package kafka

import (
	"time"

	"github.com/traceably/spanwrap/pkg/observability"
)

const component = "kafka"

// observeOperation notifies the observer about an operation if one is
// configured.
func (k *KafkaClient) observeOperation(operation, resource string, duration time.Duration, err error, size int) {
	if k == nil || k.observer == nil {
		return
	}

	k.observer.ObserveOperation(observability.OperationContext{
		Component: component,
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Size:      int64(size),
	})
}
