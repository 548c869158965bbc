package observability

import "time"

// OperationContext describes one completed operation of an instrumented
// client: which component ran it, what it touched, how long it took, and how
// it ended.
type OperationContext struct {
	// Component is the instrumented client ("postgres", "rabbit", ...)
	Component string

	// Operation is the client-level operation name ("query", "publish", ...)
	Operation string

	// Resource is the primary thing operated on (table, exchange, bucket)
	Resource string

	// SubResource is additional context (routing key, object key)
	SubResource string

	// Duration is how long the operation took
	Duration time.Duration

	// Error is the operation's error, or nil on success
	Error error

	// Size is the payload size in bytes, when known
	Size int64

	// Metadata carries any extra per-operation values
	Metadata map[string]interface{}
}

// Observer receives a notification per completed operation. Implementations
// must be safe for concurrent use; instrumented clients call ObserveOperation
// from whatever goroutine ran the operation.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}
