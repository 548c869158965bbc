package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"
)

var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle starts the exposition server on startup and shuts
// it down gracefully on stop.
func RegisterMetricsLifecycle(lc fx.Lifecycle, metrics *Metrics) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := metrics.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return metrics.Server.Shutdown(ctx)
		},
	})
}
