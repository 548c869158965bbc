// Package logger provides structured logging for the module, built on Zap.
//
// Beyond the usual leveled methods it offers *WithContext variants that
// stamp log entries with the trace and span IDs of the active span, so logs
// and traces produced by the same operation can be correlated in the
// observability backend.
//
// Basic Usage:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         "info",
//		ServiceName:   "my-service",
//		EnableTracing: true,
//	})
//
//	log.Info("User logged in", nil, map[string]interface{}{
//		"user_id": "12345",
//	})
//
//	// Inside a traced operation: includes trace_id and span_id.
//	log.InfoWithContext(ctx, "Processing request", nil, nil)
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		// ... other modules
//	)
//	app.Run()
package logger
