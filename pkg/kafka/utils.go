package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/traceably/spanwrap/pkg/tracer"
	"github.com/traceably/spanwrap/pkg/tracing"
)

const publishSpanName = "kafka.publish"

// Message is a consumed Kafka record. Context carries the trace extracted
// from the record headers.
type Message interface {
	CommitMsg() error
	Body() []byte
	Key() []byte
	Context() context.Context
}

type ConsumerMessage struct {
	msg    kafka.Message
	reader *kafka.Reader
	ctx    context.Context
}

// CommitMsg commits the message offset. It is a no-op error for readers with
// auto-commit enabled.
func (m *ConsumerMessage) CommitMsg() error {
	return m.reader.CommitMessages(context.Background(), m.msg)
}

func (m *ConsumerMessage) Body() []byte {
	return m.msg.Value
}

func (m *ConsumerMessage) Key() []byte {
	return m.msg.Key
}

func (m *ConsumerMessage) Context() context.Context {
	return m.ctx
}

// Publish writes msg to the configured topic inside a messaging span. The
// trace context is injected into the record headers so consumers continue
// the trace.
func (k *KafkaClient) Publish(ctx context.Context, key, msg []byte) error {
	attrs := tracing.Attributes{
		"messaging.system":           "kafka",
		"messaging.destination.name": k.cfg.Topic,
	}

	start := time.Now()
	err := k.runner.Run(ctx, publishSpanName, attrs, func(ctx context.Context) error {
		k.mu.RLock()
		defer k.mu.RUnlock()
		if k.writer == nil {
			return errors.New("kafka client is not configured as a producer")
		}
		return k.writer.WriteMessages(ctx, kafka.Message{
			Key:     key,
			Value:   msg,
			Headers: recordHeaders(tracer.InjectContext(ctx)),
		})
	})
	k.observeOperation("publish", k.cfg.Topic, time.Since(start), err, len(msg))

	if err != nil {
		k.logger.Error("error in publishing msg into kafka", err, map[string]interface{}{
			"topic": k.cfg.Topic,
		})
	}
	return err
}

// Consume fetches records from the configured topic until ctx is cancelled or
// the client shuts down. Each delivered Message carries a context rebuilt
// from the record headers.
func (k *KafkaClient) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	outChan := make(chan Message, 100)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(outChan)
		for {
			select {
			case <-k.shutdownSignal:
				k.logger.Info("kafka consumer is shutting down due to shutdown signal", nil, nil)
				return
			case <-ctx.Done():
				k.logger.Info("kafka consumer is shutting down due to context cancellation", ctx.Err(), nil)
				return
			default:
				k.mu.RLock()
				reader := k.reader
				k.mu.RUnlock()

				if reader == nil {
					k.logger.Error("kafka client is not configured as a consumer", nil, nil)
					return
				}

				msg, err := reader.FetchMessage(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
						continue
					}
					k.logger.Error("error in fetching message from kafka", err, map[string]interface{}{
						"topic": k.cfg.Topic,
					})
					time.Sleep(100 * time.Millisecond)
					continue
				}

				k.logger.Debug("message consumed from kafka", nil, map[string]interface{}{
					"topic":     msg.Topic,
					"partition": msg.Partition,
					"offset":    msg.Offset,
				})
				outChan <- &ConsumerMessage{
					msg:    msg,
					reader: reader,
					ctx:    tracer.ExtractContext(context.Background(), headerMap(msg.Headers)),
				}
			}
		}
	}()
	return outChan
}

// recordHeaders converts trace-context headers to Kafka record headers.
func recordHeaders(headers map[string]string) []kafka.Header {
	if len(headers) == 0 {
		return nil
	}
	out := make([]kafka.Header, 0, len(headers))
	for k, v := range headers {
		out = append(out, kafka.Header{Key: k, Value: []byte(v)})
	}
	return out
}

// headerMap converts Kafka record headers to a plain header map. Later
// duplicates win.
func headerMap(headers []kafka.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h.Key] = string(h.Value)
	}
	return out
}
