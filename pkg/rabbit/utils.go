package rabbit

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/traceably/spanwrap/pkg/tracer"
	"github.com/traceably/spanwrap/pkg/tracing"
)

const publishSpanName = "rabbit.publish"

// Message is a consumed delivery. Context carries the trace extracted from
// the message headers, so spans started from it continue the publisher's
// trace.
type Message interface {
	AckMsg() error
	NackMsg(requeue bool) error
	Body() []byte
	Context() context.Context
}

type ConsumerMessage struct {
	body     []byte
	delivery *amqp.Delivery
	ctx      context.Context
}

func (m *ConsumerMessage) AckMsg() error {
	return m.delivery.Ack(false)
}

func (m *ConsumerMessage) NackMsg(requeue bool) error {
	return m.delivery.Nack(false, requeue)
}

func (m *ConsumerMessage) Body() []byte {
	return m.body
}

func (m *ConsumerMessage) Context() context.Context {
	return m.ctx
}

// consumeQueue consumes messages from queueName until ctx is cancelled or the
// client shuts down, re-establishing the consumer when the delivery stream
// closes.
func (rb *Rabbit) consumeQueue(ctx context.Context, wg *sync.WaitGroup, queueName string) <-chan Message {
	outChan := make(chan Message, 100)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(outChan)
	outerLoop:
		for {
			select {
			case <-rb.shutdownSignal:
				rb.logger.Info("consumer is shutting down due to shutdown signal", nil, nil)
				return
			case <-ctx.Done():
				rb.logger.Info("consumer is shutting down due to context cancellation", ctx.Err(), nil)
				return
			default:
				rb.mu.RLock()
				msgs, err := rb.Channel.Consume(
					queueName,
					"",    // consumer
					false, // autoAck
					false, // exclusive
					false, // noLocal
					false, // noWait
					nil,   // args
				)
				rb.mu.RUnlock()

				if err != nil {
					rb.logger.Error("error in establishing consumer for rabbit", err, map[string]interface{}{
						"queue_name": queueName,
					})
					time.Sleep(100 * time.Millisecond)
					continue
				}

				for {
					select {
					case <-ctx.Done():
						rb.logger.Info("consumer is shutting down due to context cancellation", ctx.Err(), nil)
						return
					case <-rb.shutdownSignal:
						rb.logger.Info("consumer is shutting down due to shutdown signal", nil, nil)
						return
					case msg, ok := <-msgs:
						if !ok {
							continue outerLoop
						}
						rb.logger.Debug("message consumed from rabbit", nil, map[string]interface{}{
							"queue_name": queueName,
							"payload":    fmt.Sprintf("%v", string(msg.Body)),
						})
						outChan <- &ConsumerMessage{
							body:     msg.Body,
							delivery: &msg,
							ctx:      tracer.ExtractContext(context.Background(), headerMap(msg.Headers)),
						}
					}
				}
			}
		}
	}()
	return outChan
}

// Consume consumes from the configured queue.
func (rb *Rabbit) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	return rb.consumeQueue(ctx, wg, rb.cfg.Channel.QueueName)
}

// ConsumeDLQ consumes from the dead letter queue.
func (rb *Rabbit) ConsumeDLQ(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	return rb.consumeQueue(ctx, wg, rb.cfg.DeadLetter.QueueName)
}

// Publish sends msg to the configured exchange inside a messaging span. The
// trace context is injected into the message headers so the consumer can
// continue the trace.
func (rb *Rabbit) Publish(ctx context.Context, msg []byte) error {
	attrs := tracing.Attributes{
		"messaging.system":               "rabbitmq",
		"messaging.destination.name":     rb.cfg.Channel.ExchangeName,
		"messaging.rabbitmq.routing_key": rb.cfg.Channel.RoutingKey,
	}

	start := time.Now()
	err := rb.runner.Run(ctx, publishSpanName, attrs, func(ctx context.Context) error {
		rb.mu.RLock()
		defer rb.mu.RUnlock()
		return rb.Channel.PublishWithContext(ctx,
			rb.cfg.Channel.ExchangeName,
			rb.cfg.Channel.RoutingKey,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				Headers:     headerTable(tracer.InjectContext(ctx)),
				ContentType: rb.cfg.Channel.ContentType,
				Body:        msg,
			},
		)
	})
	rb.observeOperation("publish", rb.cfg.Channel.ExchangeName, time.Since(start), err, len(msg))

	if err != nil {
		rb.logger.Error("error in publishing msg into rabbit", err, nil)
	}
	return err
}

// headerTable converts trace-context headers to an AMQP header table.
func headerTable(headers map[string]string) amqp.Table {
	if len(headers) == 0 {
		return nil
	}
	table := make(amqp.Table, len(headers))
	for k, v := range headers {
		table[k] = v
	}
	return table
}

// headerMap extracts the string-valued entries of an AMQP header table.
func headerMap(table amqp.Table) map[string]string {
	headers := make(map[string]string, len(table))
	for k, v := range table {
		if s, ok := v.(string); ok {
			headers[k] = s
		}
	}
	return headers
}
