// Package observability defines the operation-level observer hook shared by
// the module's instrumented clients.
//
// Every client (postgres, rabbit, kafka, minio, httpclient) reports each
// completed operation to an optional Observer with a uniform
// OperationContext. Spans are handled separately by the tracing package at
// the moment the operation runs; observers cover the after-the-fact
// concerns, such as metrics (see metrics.Metrics.Observer) and logging
// (LoggingObserver).
//
//	obs := observability.NewMultiObserver(
//		metricsClient.Observer(),
//		observability.NewLoggingObserver(log, 500*time.Millisecond),
//	)
//	db := postgres.NewPostgres(cfg, log, runner).WithObserver(obs)
package observability
