package rabbit

import (
	"time"

	"github.com/traceably/spanwrap/pkg/observability"
)

const component = "rabbit"

// WithObserver sets the operation observer and returns the client for
// chaining.
func (rb *Rabbit) WithObserver(observer observability.Observer) *Rabbit {
	rb.observer = observer
	return rb
}

// observeOperation notifies the observer about an operation if one is
// configured.
func (rb *Rabbit) observeOperation(operation, resource string, duration time.Duration, err error, size int) {
	if rb == nil || rb.observer == nil {
		return
	}

	rb.observer.ObserveOperation(observability.OperationContext{
		Component: component,
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Size:      int64(size),
	})
}
