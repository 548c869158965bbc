// Package tracer wires the module to OpenTelemetry.
//
// It owns the process's TracerProvider (with optional OTLP HTTP export),
// adapts it to the backend-agnostic capability interfaces consumed by the
// tracing package, and handles W3C trace-context propagation across service
// boundaries.
//
// Basic Usage:
//
//	import (
//		"github.com/traceably/spanwrap/pkg/logger"
//		"github.com/traceably/spanwrap/pkg/tracer"
//		"github.com/traceably/spanwrap/pkg/tracing"
//	)
//
//	log := logger.NewLoggerClient(logger.Config{Level: "info"})
//	client := tracer.NewClient(tracer.Config{
//		ServiceName:  "my-service",
//		AppEnv:       "development",
//		EnableExport: true,
//	}, log)
//
//	runner := tracing.NewRunner(client.Provider())
//	err := runner.Run(ctx, "handle-request", nil, handle)
//
// Propagation Across Services:
//
//	// Sending side: copy the carrier onto the outgoing request.
//	for key, value := range tracer.InjectContext(ctx) {
//		req.Header.Set(key, value)
//	}
//
//	// Receiving side: rebuild the context from incoming headers.
//	ctx := tracer.ExtractContext(r.Context(), headers)
//	ctx, span := client.StartSpan(ctx, "handle-request")
//	defer span.End()
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		tracer.FXModule,
//		tracing.FXModule,
//		// ... other modules
//	)
//	app.Run()
//
// All methods on Tracer are safe for concurrent use.
package tracer
