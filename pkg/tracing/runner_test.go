package tracing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunSuccessSetsOKAndEndsOnce(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	err := r.Run(context.Background(), "x", nil, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	spans := rec.Spans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "x" {
		t.Fatalf("expected span name x, got %q", span.Name())
	}
	set, ok, _ := span.Status()
	if !set || !ok {
		t.Fatalf("expected OK status, got set=%v ok=%v", set, ok)
	}
	if span.Ends() != 1 {
		t.Fatalf("expected exactly 1 end, got %d", span.Ends())
	}
}

func TestRunValuePassesValueThrough(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	got, err := RunValue(r, context.Background(), "x", nil, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestRunErrorPreservesIdentity(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)
	boom := errors.New("boom")

	err := r.Run(context.Background(), "x", nil, func(ctx context.Context) error {
		return boom
	})
	if err != boom {
		t.Fatalf("expected the identical error back, got %v", err)
	}

	span := rec.Spans()[0]
	set, ok, desc := span.Status()
	if !set || ok {
		t.Fatalf("expected ERROR status, got set=%v ok=%v", set, ok)
	}
	if desc != "boom" {
		t.Fatalf("expected description boom, got %q", desc)
	}
	recorded := span.Errors()
	if len(recorded) != 1 || recorded[0] != boom {
		t.Fatalf("expected boom recorded once, got %v", recorded)
	}
	if span.Ends() != 1 {
		t.Fatalf("expected exactly 1 end, got %d", span.Ends())
	}
}

func TestRunPanicRecordsAndRepanics(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		_ = r.Run(context.Background(), "x", nil, func(ctx context.Context) error {
			panic("kaboom")
		})
	}()

	if recovered != "kaboom" {
		t.Fatalf("expected original panic value, got %v", recovered)
	}

	span := rec.Spans()[0]
	set, ok, _ := span.Status()
	if !set || ok {
		t.Fatalf("expected ERROR status after panic, got set=%v ok=%v", set, ok)
	}
	if len(span.Errors()) != 1 {
		t.Fatalf("expected 1 recorded error, got %d", len(span.Errors()))
	}
	if span.Ends() != 1 {
		t.Fatalf("expected exactly 1 end, got %d", span.Ends())
	}
}

func TestRunAttributesSetBeforeOperation(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	var seen interface{}
	err := r.Run(context.Background(), "x", Attributes{"user.id": "u-1"}, func(ctx context.Context) error {
		// The attribute must already be on the active span when the
		// operation starts.
		seen, _ = rec.Active(ctx).Attr("user.id")
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if seen != "u-1" {
		t.Fatalf("expected user.id u-1 visible inside operation, got %v", seen)
	}
}

func TestRunEndsAfterOperationCompletes(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	err := r.Run(context.Background(), "x", nil, func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		if rec.Active(ctx).Ends() != 0 {
			t.Fatal("span ended before operation completed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if rec.Spans()[0].Ends() != 1 {
		t.Fatalf("expected span ended after completion")
	}
}

func TestRunNestingLinksChildToParent(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	err := r.Run(context.Background(), "parent", nil, func(ctx context.Context) error {
		return r.Run(ctx, "child", nil, func(ctx context.Context) error {
			return nil
		})
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	spans := rec.Spans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[1].Name() != "child" || spans[1].Parent() != spans[0] {
		t.Fatalf("expected child linked to parent, got parent=%v", spans[1].Parent())
	}
	if spans[0].Parent() != nil {
		t.Fatalf("expected parent to be a root span")
	}
}

func TestRunEmptyNamePanicsBeforeSpanWork(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty span name")
		}
		if len(rec.Spans()) != 0 {
			t.Fatal("no span should be created for an empty name")
		}
	}()
	_ = r.Run(context.Background(), "", nil, func(ctx context.Context) error {
		return nil
	})
}

func TestNilRunnerRunsOperationWithoutSpan(t *testing.T) {
	var r *Runner

	called := false
	err := r.Run(context.Background(), "x", nil, func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("operation should still run without a tracer")
	}
}

func TestRunWithCancelledContextReportsError(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, "x", nil, func(ctx context.Context) error {
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	set, ok, _ := rec.Spans()[0].Status()
	if !set || ok {
		t.Fatalf("cancellation must surface as ERROR, got set=%v ok=%v", set, ok)
	}
	if rec.Spans()[0].Ends() != 1 {
		t.Fatal("cancellation must not leak the span")
	}
}

func TestConcurrentRunsStayIsolated(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			done <- r.Run(context.Background(), "worker", nil, func(ctx context.Context) error {
				return nil
			})
		}()
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	spans := rec.Spans()
	if len(spans) != 20 {
		t.Fatalf("expected 20 spans, got %d", len(spans))
	}
	for _, span := range spans {
		if span.Ends() != 1 {
			t.Fatalf("expected each span ended exactly once, got %d", span.Ends())
		}
		if span.Parent() != nil {
			t.Fatal("unrelated concurrent spans must not be linked")
		}
	}
}
