package rabbit

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/traceably/spanwrap/pkg/tracer"
)

func TestHeaderTableRoundTrip(t *testing.T) {
	headers := map[string]string{
		"traceparent": "00-0102030405060708090a0b0c0d0e0f10-0102030405060708-01",
		"baggage":     "tenant=acme",
	}

	table := headerTable(headers)
	if len(table) != len(headers) {
		t.Fatalf("table has %d entries, want %d", len(table), len(headers))
	}

	back := headerMap(table)
	for k, want := range headers {
		if got := back[k]; got != want {
			t.Errorf("header %q = %q, want %q", k, got, want)
		}
	}
}

func TestHeaderTableEmpty(t *testing.T) {
	if table := headerTable(nil); table != nil {
		t.Fatalf("expected nil table for empty headers, got %v", table)
	}
}

func TestHeaderMapSkipsNonStringValues(t *testing.T) {
	table := amqp.Table{
		"traceparent": "00-0102030405060708090a0b0c0d0e0f10-0102030405060708-01",
		"x-death":     int32(3),
	}

	headers := headerMap(table)
	if len(headers) != 1 {
		t.Fatalf("expected 1 header, got %d", len(headers))
	}
	if _, ok := headers["x-death"]; ok {
		t.Error("non-string header value should be dropped")
	}
}

func TestConsumerMessageContinuesTrace(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		SpanID:     trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
		TraceFlags: trace.FlagsSampled,
	})
	headers := tracer.InjectContext(trace.ContextWithSpanContext(context.Background(), sc))

	msg := &ConsumerMessage{
		body: []byte("payload"),
		ctx:  tracer.ExtractContext(context.Background(), headerMap(headerTable(headers))),
	}

	if string(msg.Body()) != "payload" {
		t.Fatalf("unexpected body %q", msg.Body())
	}

	got := trace.SpanContextFromContext(msg.Context())
	if !got.IsValid() {
		t.Fatal("expected a valid span context from message headers")
	}
	if got.TraceID() != sc.TraceID() {
		t.Errorf("trace id = %s, want %s", got.TraceID(), sc.TraceID())
	}
}
