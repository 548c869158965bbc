package tracing

import (
	"context"
	"strings"
	"testing"
)

func okOp(ctx context.Context) error { return nil }

func TestQuerySetsSystemAndStatement(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	err := r.Query(context.Background(), "postgresql", "SELECT 1", nil, okOp)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	span := rec.Spans()[0]
	if span.Name() != SpanNameQuery {
		t.Fatalf("expected span name %q, got %q", SpanNameQuery, span.Name())
	}
	if v, _ := span.Attr(AttrDBSystem); v != "postgresql" {
		t.Fatalf("expected db.system postgresql, got %v", v)
	}
	if v, _ := span.Attr(AttrDBStatement); v != "SELECT 1" {
		t.Fatalf("expected db.statement SELECT 1, got %v", v)
	}
}

func TestQueryOmitsEmptyStatement(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	if err := r.Query(context.Background(), "postgresql", "", nil, okOp); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := rec.Spans()[0].Attr(AttrDBStatement); ok {
		t.Fatal("empty statement must not emit a db.statement key")
	}
}

func TestCallDerivesPeerHost(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	err := r.Call(context.Background(), "GET", "https://api.example.com:8443/v1/users?page=2", nil, okOp)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	span := rec.Spans()[0]
	if span.Name() != SpanNameCall {
		t.Fatalf("expected span name %q, got %q", SpanNameCall, span.Name())
	}
	if v, _ := span.Attr(AttrHTTPMethod); v != "GET" {
		t.Fatalf("expected http.method GET, got %v", v)
	}
	if v, _ := span.Attr(AttrServerAddress); v != "api.example.com" {
		t.Fatalf("expected server.address api.example.com, got %v", v)
	}
}

func TestCallRejectsMalformedURLBeforeSpanWork(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	called := false
	err := r.Call(context.Background(), "GET", "/relative/path", nil, func(ctx context.Context) error {
		called = true
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "no host") {
		t.Fatalf("expected descriptive host error, got %v", err)
	}
	if called {
		t.Fatal("operation must not run for a malformed URL")
	}
	if len(rec.Spans()) != 0 {
		t.Fatal("no span may be created for a malformed URL")
	}
}

func TestCallerAttributesOverrideDefaults(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	err := r.Query(context.Background(), "postgresql", "SELECT 1",
		Attributes{AttrDBSystem: "timescaledb"}, okOp)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if v, _ := rec.Spans()[0].Attr(AttrDBSystem); v != "timescaledb" {
		t.Fatalf("caller attribute must win, got %v", v)
	}
}

func TestProcessOmitsNegativeCount(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	if err := r.Process(context.Background(), "invoices", -1, nil, okOp); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	span := rec.Spans()[0]
	if span.Name() != "process.invoices" {
		t.Fatalf("expected span name process.invoices, got %q", span.Name())
	}
	if _, ok := span.Attr(AttrRecordCount); ok {
		t.Fatal("omitted count must not emit a record.count key")
	}

	if err := r.Process(context.Background(), "invoices", 7, nil, okOp); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if v, _ := rec.Spans()[1].Attr(AttrRecordCount); v != int64(7) {
		t.Fatalf("expected record.count 7, got %v", v)
	}
}

func TestLoadAndFetchNames(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	attrs := Attributes{"page": 3}
	if err := r.Load(context.Background(), "profile", attrs, okOp); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := r.Fetch(context.Background(), "profile", attrs, okOp); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	spans := rec.Spans()
	if spans[0].Name() != "profile.load" {
		t.Fatalf("expected profile.load, got %q", spans[0].Name())
	}
	if spans[1].Name() != "profile.fetch" {
		t.Fatalf("expected profile.fetch, got %q", spans[1].Name())
	}
	if v, _ := spans[0].Attr("page"); v != 3 {
		t.Fatalf("caller attributes must pass through unchanged, got %v", v)
	}
}

func TestStepName(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	if err := r.Step(context.Background(), "validate", nil, okOp); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := rec.Spans()[0].Name(); got != "step.validate" {
		t.Fatalf("expected step.validate, got %q", got)
	}
}

func TestOperationNameIsDeterministic(t *testing.T) {
	first := OperationName("jobs", okOp)
	second := OperationName("jobs", okOp)
	if first != second {
		t.Fatalf("expected deterministic naming, got %q then %q", first, second)
	}
	if first != "jobs.okOp" {
		t.Fatalf("expected jobs.okOp, got %q", first)
	}
	if got := OperationName("", okOp); got != "okOp" {
		t.Fatalf("expected bare identifier without prefix, got %q", got)
	}
}

func TestOperationNameAnonymousFallback(t *testing.T) {
	closure := func(ctx context.Context) error { return nil }
	if got := OperationName("jobs", closure); got != "jobs.anonymous" {
		t.Fatalf("expected jobs.anonymous for a closure, got %q", got)
	}
	if got := OperationName("", nil); got != "anonymous" {
		t.Fatalf("expected anonymous for nil, got %q", got)
	}
}

func TestNamedOpUsesDerivedName(t *testing.T) {
	rec := NewRecorder()
	r := NewRunner(rec)

	if err := r.NamedOp(context.Background(), "jobs", okOp); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := rec.Spans()[0].Name(); got != "jobs.okOp" {
		t.Fatalf("expected jobs.okOp, got %q", got)
	}
}

func TestMergeAttributesDoesNotMutateInputs(t *testing.T) {
	defaults := Attributes{"a": 1}
	overrides := Attributes{"a": 2, "b": 3}

	merged := MergeAttributes(defaults, overrides)
	if merged["a"] != 2 || merged["b"] != 3 {
		t.Fatalf("unexpected merge result: %v", merged)
	}
	if defaults["a"] != 1 {
		t.Fatal("defaults must not be mutated")
	}
	if len(overrides) != 2 {
		t.Fatal("overrides must not be mutated")
	}
}
