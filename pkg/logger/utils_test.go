package logger

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(tracingEnabled bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{Zap: zap.New(core), tracingEnabled: tracingEnabled}, logs
}

func ctxWithSpan(t *testing.T) context.Context {
	t.Helper()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	if !sc.IsValid() {
		t.Fatal("test span context must be valid")
	}
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestConvertToZapFieldsIncludesErrorAndFields(t *testing.T) {
	l, logs := newObservedLogger(false)

	l.Error("query failed", errors.New("boom"), map[string]interface{}{
		"table": "users",
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["error"] != "boom" {
		t.Fatalf("expected error field boom, got %v", fields["error"])
	}
	if fields["table"] != "users" {
		t.Fatalf("expected table field users, got %v", fields["table"])
	}
}

func TestInfoWithContextStampsTraceIDs(t *testing.T) {
	l, logs := newObservedLogger(true)

	l.InfoWithContext(ctxWithSpan(t), "processing", nil, nil)

	fields := logs.All()[0].ContextMap()
	if fields["trace_id"] != "0102030405060708090a0b0c0d0e0f10" {
		t.Fatalf("expected trace_id field, got %v", fields["trace_id"])
	}
	if fields["span_id"] != "0102030405060708" {
		t.Fatalf("expected span_id field, got %v", fields["span_id"])
	}
}

func TestWithContextSkipsTraceFieldsWhenDisabled(t *testing.T) {
	l, logs := newObservedLogger(false)

	l.InfoWithContext(ctxWithSpan(t), "processing", nil, nil)

	fields := logs.All()[0].ContextMap()
	if _, ok := fields["trace_id"]; ok {
		t.Fatal("trace_id must not be stamped when tracing is disabled")
	}
}

func TestWithContextSkipsTraceFieldsWithoutSpan(t *testing.T) {
	l, logs := newObservedLogger(true)

	l.InfoWithContext(context.Background(), "processing", nil, nil)

	fields := logs.All()[0].ContextMap()
	if _, ok := fields["trace_id"]; ok {
		t.Fatal("trace_id must not be stamped without an active span")
	}
}
