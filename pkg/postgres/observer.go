package postgres

import (
	"time"

	"github.com/traceably/spanwrap/pkg/observability"
)

// WithObserver sets the operation observer and returns the client for
// chaining.
func (p *Postgres) WithObserver(observer observability.Observer) *Postgres {
	p.observer = observer
	return p
}

// observeOperation notifies the observer about an operation if one is
// configured.
//
// Notes:
//   - resource: the statement or operation label
func (p *Postgres) observeOperation(operation, resource string, duration time.Duration, err error) {
	if p == nil || p.observer == nil {
		return
	}

	p.observer.ObserveOperation(observability.OperationContext{
		Component: component,
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
	})
}
