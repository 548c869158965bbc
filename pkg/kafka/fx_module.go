package kafka

import (
	"context"

	"go.uber.org/fx"
)

var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

func RegisterKafkaLifecycle(lc fx.Lifecycle, client *KafkaClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.GracefulShutdown()
		},
	})
}
