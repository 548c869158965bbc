// Package rabbit provides a traced RabbitMQ client with automatic
// reconnection.
//
// Publishes run inside a "rabbit.publish" span carrying the messaging
// attributes, and the trace context is injected into the message headers.
// Consumed messages expose a Context rebuilt from those headers, so the
// consumer side continues the publisher's trace.
//
// Basic Usage:
//
//	client := rabbit.NewClient(cfg, log, runner)
//
//	// Publishing
//	err := client.Publish(ctx, payload)
//
//	// Consuming
//	wg := &sync.WaitGroup{}
//	for msg := range client.Consume(ctx, wg) {
//		err := runner.Run(msg.Context(), "handle-event", nil, func(ctx context.Context) error {
//			return handle(ctx, msg.Body())
//		})
//		if err != nil {
//			_ = msg.NackMsg(true)
//			continue
//		}
//		_ = msg.AckMsg()
//	}
//
// FX Module Integration:
//
//	app := fx.New(
//		rabbit.FXModule,
//		// ... other modules
//	)
//
// The lifecycle hook starts the reconnection loop on startup and closes the
// channel and connection on shutdown.
package rabbit
