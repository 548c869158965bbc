package tracer

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// StartSpan creates a raw OpenTelemetry span named name, as a child of
// whatever span ctx carries. Callers that only need the run-a-callback shape
// should go through tracing.Runner instead; StartSpan exists for code that
// manages the span lifecycle itself.
//
//	ctx, span := client.StartSpan(ctx, "process-request")
//	defer span.End()
func (t *Tracer) StartSpan(ctx context.Context, name string) (context.Context, traceSpan.Span) {
	return t.tp.Tracer(scopeName).Start(ctx, name)
}

// RecordErrorOnSpan records err on span and marks it failed.
func (t *Tracer) RecordErrorOnSpan(span traceSpan.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// InjectContext returns the W3C trace-context headers for ctx, ready to be
// copied onto an outgoing request or message so the receiving service joins
// the same trace.
func InjectContext(ctx context.Context) map[string]string {
	propagator := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	carrier := propagation.MapCarrier{}
	propagator.Inject(ctx, carrier)
	return carrier
}

// ExtractContext returns a context carrying the trace information found in
// headers (typically the headers of an incoming request or message).
// Spans started from the returned context continue the upstream trace.
func ExtractContext(ctx context.Context, headers map[string]string) context.Context {
	propagator := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	return propagator.Extract(ctx, propagation.MapCarrier(headers))
}

// GetCarrier extracts the current trace context from ctx as a transportable
// header map.
func (t *Tracer) GetCarrier(ctx context.Context) map[string]string {
	return InjectContext(ctx)
}

// SetCarrierOnContext injects the trace information from carrier into ctx.
func (t *Tracer) SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context {
	return ExtractContext(ctx, carrier)
}
