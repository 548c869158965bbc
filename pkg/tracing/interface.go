package tracing

import "context"

// Attributes is a set of scalar key/value annotations attached to a span.
// Values should be strings, integers, floats, or booleans; backends convert
// anything else to its string form.
type Attributes map[string]interface{}

// Span is the narrow capability this package needs from one span of the
// underlying tracing backend. A Span is owned by the single Run invocation
// that created it and must not be retained after End.
type Span interface {
	// SetAttributes attaches the given attributes to the span.
	SetAttributes(attrs Attributes)

	// SetStatus records the terminal outcome of the span. The description
	// is only meaningful for failed spans.
	SetStatus(ok bool, description string)

	// RecordError captures the error on the span.
	RecordError(err error)

	// End closes the span. It must be called exactly once.
	End()
}

// Tracer is the capability a tracing backend must provide: start a span and
// make it the active span for the returned context. Child spans started from
// that context are linked to it by the backend.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}
