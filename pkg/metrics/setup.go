package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Server      *http.Server
	Registry    *prometheus.Registry
	serviceName string

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewMetrics builds a registry with the module's operation metrics and an
// HTTP server exposing it. The server is started by the fx lifecycle (or by
// calling ListenAndServe on Server directly).
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	operationsTotal := createCounterVec(
		"client_operations_total",
		"Completed client operations by component, operation, and outcome.",
		[]string{"component", "operation", "status"},
	)
	operationDuration := createHistogramVec(
		"client_operation_duration_seconds",
		"Duration of client operations by component and operation.",
		[]string{"component", "operation"},
		prometheus.DefBuckets,
	)
	wrappedRegistry.MustRegister(operationsTotal, operationDuration)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	return &Metrics{
		Server:            server,
		Registry:          registry,
		serviceName:       cfg.ServiceName,
		operationsTotal:   operationsTotal,
		operationDuration: operationDuration,
	}
}
