package metrics

import (
	"github.com/traceably/spanwrap/pkg/observability"
)

// Observer returns an observability.Observer that records every completed
// operation on this registry's counters and histograms.
func (m *Metrics) Observer() observability.Observer {
	return &metricsObserver{metrics: m}
}

type metricsObserver struct {
	metrics *Metrics
}

func (o *metricsObserver) ObserveOperation(ctx observability.OperationContext) {
	status := "ok"
	if ctx.Error != nil {
		status = "error"
	}

	o.metrics.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	o.metrics.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
}
