package postgres

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/traceably/spanwrap/pkg/observability"
)

// TestObserver is a mock observer for testing.
type TestObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *TestObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *TestObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]observability.OperationContext, len(t.operations))
	copy(out, t.operations)
	return out
}

func TestObserveOperationNilObserverNoPanic(t *testing.T) {
	p := &Postgres{
		observer: nil,
	}

	// Should not panic.
	p.observeOperation("find", "SELECT", 10*time.Millisecond, nil)
}

func TestObserveOperationCallsObserver(t *testing.T) {
	obs := &TestObserver{}
	p := &Postgres{
		observer: obs,
	}

	p.observeOperation("exec", "UPDATE users SET active = true", 10*time.Millisecond, errors.New("boom"))

	ops := obs.GetOperations()
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
	if ops[0].Component != "postgres" {
		t.Fatalf("expected component postgres, got %q", ops[0].Component)
	}
	if ops[0].Operation != "exec" {
		t.Fatalf("expected operation exec, got %q", ops[0].Operation)
	}
	if ops[0].Error == nil {
		t.Fatal("expected error recorded on operation")
	}
}

func TestWithObserver(t *testing.T) {
	obs := &TestObserver{}
	p := &Postgres{
		observer: nil,
	}

	if p.observer != nil {
		t.Fatalf("expected no observer initially")
	}

	out := p.WithObserver(obs)
	if out != p {
		t.Fatalf("WithObserver should return same instance for chaining")
	}
	if p.observer != obs {
		t.Fatalf("expected observer to be set")
	}
}
