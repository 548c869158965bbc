// Package metrics exposes Prometheus metrics for the module's instrumented
// clients.
//
// NewMetrics builds an isolated registry (labelled with the service name)
// and an HTTP exposition server. Metrics.Observer returns an
// observability.Observer that records per-operation counters and latency
// histograms, so every instrumented client reports into the same two metric
// families:
//
//	client_operations_total{component, operation, status}
//	client_operation_duration_seconds{component, operation}
//
// Usage:
//
//	m := metrics.NewMetrics(metrics.Config{
//		ServiceName: "my-service",
//		Address:     ":9090",
//	})
//	db := postgres.NewPostgres(cfg, log, runner).WithObserver(m.Observer())
package metrics
