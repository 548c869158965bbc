package tracing

import (
	"context"
	"fmt"
)

// Runner executes operations inside tracing spans. It holds the injected
// Tracer capability so tests can substitute an in-memory or no-op backend
// without touching global state.
//
// A nil Runner (or a Runner with a nil Tracer) is valid: operations run
// without any span bookkeeping. This lets instrumented clients treat tracing
// as optional, the same way an unset observer is skipped.
type Runner struct {
	tracer Tracer
}

// NewRunner returns a Runner backed by the given tracer capability.
func NewRunner(tracer Tracer) *Runner {
	return &Runner{tracer: tracer}
}

// Run executes fn inside a span named name. The span is created before fn
// starts, attrs are attached before fn starts, and the span is ended exactly
// once on every exit path:
//
//   - fn returns nil: status OK, span ended, nil returned.
//   - fn returns an error: the error is recorded, status set to ERROR with
//     the error message, span ended, and the identical error returned
//     unchanged (never wrapped).
//   - fn panics: the panic is recorded, status set to ERROR, span ended, and
//     the original panic value re-raised.
//
// name must not be empty; an empty name is a programmer error and panics
// before any span is created.
func (r *Runner) Run(ctx context.Context, name string, attrs Attributes, fn func(context.Context) error) error {
	_, err := RunValue(r, ctx, name, attrs, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// RunValue is the value-returning form of Run. It follows the same span
// lifecycle contract and passes fn's result through unchanged.
func RunValue[T any](r *Runner, ctx context.Context, name string, attrs Attributes, fn func(context.Context) (T, error)) (T, error) {
	if name == "" {
		panic("tracing: span name must not be empty")
	}

	if r == nil || r.tracer == nil {
		return fn(ctx)
	}

	ctx, span := r.tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs)
	}

	done := false
	defer func() {
		if done {
			return
		}

		rec := recover()
		if rec == nil {
			// fn left the frame without returning (runtime.Goexit).
			// Treat it as a failure rather than leaking the span.
			span.SetStatus(false, "operation aborted")
			span.End()
			return
		}

		err := fmt.Errorf("panic: %v", rec)
		span.RecordError(err)
		span.SetStatus(false, err.Error())
		span.End()
		panic(rec)
	}()

	val, err := fn(ctx)
	done = true

	if err != nil {
		span.RecordError(err)
		span.SetStatus(false, err.Error())
		span.End()
		return val, err
	}

	span.SetStatus(true, "")
	span.End()
	return val, nil
}
