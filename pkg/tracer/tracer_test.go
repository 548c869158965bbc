package tracer

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/traceably/spanwrap/pkg/tracing"
)

func newTestClient(t *testing.T) *Tracer {
	t.Helper()
	ctrl := gomock.NewController(t)
	// Setup without export must not log anything.
	client := NewClient(Config{ServiceName: "tracer-test", AppEnv: "test"}, NewMockLogger(ctrl))
	t.Cleanup(func() {
		_ = client.Shutdown(context.Background())
	})
	return client
}

func TestProviderRunsOperationsThroughOtel(t *testing.T) {
	client := newTestClient(t)
	runner := client.Runner()

	var inner trace.SpanContext
	err := runner.Run(context.Background(), "op", tracing.Attributes{"k": "v"}, func(ctx context.Context) error {
		inner = trace.SpanContextFromContext(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !inner.IsValid() {
		t.Fatal("operation must observe a valid active span context")
	}
}

func TestProviderPropagatesErrorIdentity(t *testing.T) {
	client := newTestClient(t)
	runner := client.Runner()
	boom := errors.New("boom")

	err := runner.Run(context.Background(), "op", nil, func(ctx context.Context) error {
		return boom
	})
	if err != boom {
		t.Fatalf("expected identical error, got %v", err)
	}
}

func TestStartSpanNestsUnderActiveSpan(t *testing.T) {
	client := newTestClient(t)

	ctx, parent := client.StartSpan(context.Background(), "parent")
	defer parent.End()

	_, child := client.StartSpan(ctx, "child")
	defer child.End()

	if child.SpanContext().TraceID() != parent.SpanContext().TraceID() {
		t.Fatal("child span must share the parent's trace")
	}
}

func TestCarrierRoundTrip(t *testing.T) {
	client := newTestClient(t)

	ctx, span := client.StartSpan(context.Background(), "origin")
	defer span.End()

	carrier := InjectContext(ctx)
	if carrier["traceparent"] == "" {
		t.Fatal("expected a traceparent header in the carrier")
	}

	restored := ExtractContext(context.Background(), carrier)
	sc := trace.SpanContextFromContext(restored)
	if !sc.IsValid() {
		t.Fatal("expected a valid span context after extraction")
	}
	if sc.TraceID() != span.SpanContext().TraceID() {
		t.Fatal("extracted context must carry the original trace id")
	}
}

func TestInjectContextWithoutSpanIsEmpty(t *testing.T) {
	carrier := InjectContext(context.Background())
	if len(carrier) != 0 {
		t.Fatalf("expected empty carrier without an active span, got %v", carrier)
	}
}
