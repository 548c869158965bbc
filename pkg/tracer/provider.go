package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/traceably/spanwrap/pkg/tracing"
)

const scopeName = "github.com/traceably/spanwrap/pkg/tracer"

// Provider returns the tracing.Tracer capability backed by this client's
// OpenTelemetry provider. Pass it to tracing.NewRunner.
func (t *Tracer) Provider() tracing.Tracer {
	return otelTracer{tracer: t.tp.Tracer(scopeName)}
}

// Runner is a convenience that builds a tracing.Runner directly from this
// client.
func (t *Tracer) Runner() *tracing.Runner {
	return tracing.NewRunner(t.Provider())
}

// ProvideTracer adapts a *Tracer into the tracing.Tracer capability for fx
// wiring.
func ProvideTracer(t *Tracer) tracing.Tracer {
	return t.Provider()
}

type otelTracer struct {
	tracer traceSpan.Tracer
}

func (o otelTracer) Start(ctx context.Context, name string) (context.Context, tracing.Span) {
	ctx, span := o.tracer.Start(ctx, name)
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span traceSpan.Span
}

func (o otelSpan) SetAttributes(attrs tracing.Attributes) {
	o.span.SetAttributes(toKeyValues(attrs)...)
}

func (o otelSpan) SetStatus(ok bool, description string) {
	if ok {
		o.span.SetStatus(codes.Ok, description)
		return
	}
	o.span.SetStatus(codes.Error, description)
}

func (o otelSpan) RecordError(err error) {
	o.span.RecordError(err)
}

func (o otelSpan) End() {
	o.span.End()
}

// toKeyValues converts a generic attribute map into OpenTelemetry key/values,
// preserving the native type for strings, ints, floats, and booleans and
// stringifying everything else.
func toKeyValues(attrs tracing.Attributes) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			out = append(out, attribute.String(k, val))
		case int:
			out = append(out, attribute.Int(k, val))
		case int64:
			out = append(out, attribute.Int64(k, val))
		case float64:
			out = append(out, attribute.Float64(k, val))
		case bool:
			out = append(out, attribute.Bool(k, val))
		default:
			out = append(out, attribute.String(k, fmt.Sprint(val)))
		}
	}
	return out
}
