package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/traceably/spanwrap/pkg/tracer"
)

func TestRecordHeadersRoundTrip(t *testing.T) {
	headers := map[string]string{
		"traceparent": "00-0102030405060708090a0b0c0d0e0f10-0102030405060708-01",
		"baggage":     "tenant=acme",
	}

	records := recordHeaders(headers)
	if len(records) != len(headers) {
		t.Fatalf("got %d record headers, want %d", len(records), len(headers))
	}

	back := headerMap(records)
	for k, want := range headers {
		if got := back[k]; got != want {
			t.Errorf("header %q = %q, want %q", k, got, want)
		}
	}
}

func TestRecordHeadersEmpty(t *testing.T) {
	if records := recordHeaders(nil); records != nil {
		t.Fatalf("expected nil headers, got %v", records)
	}
}

func TestConsumerMessageContinuesTrace(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		SpanID:     trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
		TraceFlags: trace.FlagsSampled,
	})
	injected := tracer.InjectContext(trace.ContextWithSpanContext(context.Background(), sc))

	record := kafka.Message{
		Key:     []byte("key"),
		Value:   []byte("payload"),
		Headers: recordHeaders(injected),
	}
	msg := &ConsumerMessage{
		msg: record,
		ctx: tracer.ExtractContext(context.Background(), headerMap(record.Headers)),
	}

	if string(msg.Body()) != "payload" {
		t.Fatalf("unexpected body %q", msg.Body())
	}
	if string(msg.Key()) != "key" {
		t.Fatalf("unexpected key %q", msg.Key())
	}

	got := trace.SpanContextFromContext(msg.Context())
	if !got.IsValid() || got.TraceID() != sc.TraceID() {
		t.Fatalf("expected message context to carry trace %s, got %v", sc.TraceID(), got.TraceID())
	}
}

func TestPublishWithoutWriterFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockLogger := NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	client := &KafkaClient{
		cfg:            Config{Topic: "events", IsConsumer: true},
		logger:         mockLogger,
		shutdownSignal: make(chan struct{}),
	}

	err := client.Publish(context.Background(), nil, []byte("payload"))
	if err == nil {
		t.Fatal("expected an error publishing through a consumer-only client")
	}
}
