// Package kafka provides a traced Kafka producer and consumer built on
// segmentio/kafka-go.
//
// Publishes run inside a "kafka.publish" span carrying the messaging
// attributes, and the trace context is injected into the record headers.
// Consumed messages expose a Context rebuilt from those headers.
//
// Basic Usage:
//
//	client, err := kafka.NewClient(kafka.Config{
//		Brokers: []string{"localhost:9092"},
//		Topic:   "events",
//	}, log, runner)
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
//
//	err = client.Publish(ctx, []byte("key"), payload)
//
// Consuming:
//
//	wg := &sync.WaitGroup{}
//	for msg := range client.Consume(ctx, wg) {
//		err := runner.Run(msg.Context(), "handle-record", nil, func(ctx context.Context) error {
//			return handle(ctx, msg.Body())
//		})
//		if err != nil {
//			continue
//		}
//		_ = msg.CommitMsg()
//	}
//
// All methods on KafkaClient are safe for concurrent use.
package kafka
