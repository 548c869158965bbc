package tracing

import "go.uber.org/fx"

// FXModule provides the Runner, built from whatever Tracer capability the
// application supplies (typically tracer.FXModule).
var FXModule = fx.Module("tracing",
	fx.Provide(
		NewRunner,
	),
)
