package httpclient

import "go.uber.org/fx"

var FXModule = fx.Module("httpclient",
	fx.Provide(
		NewClient,
	),
)
