package postgres

import (
	"context"

	"go.uber.org/fx"
)

var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgres,
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

func RegisterPostgresLifecycle(lifecycle fx.Lifecycle, postgres *Postgres) {
	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return postgres.Close()
		},
	})
}
