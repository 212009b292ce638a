package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
)

var _ core.MetricsRecorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder exports engine counters on its own registry
type PrometheusRecorder struct {
	registry    *prometheus.Registry
	operations  *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
}

// NewPrometheusRecorder registers the engine collectors plus the Go runtime collectors
func NewPrometheusRecorder(namespace string) *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of transaction service operations by outcome class.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Transaction status changes by edge.",
		}, []string{"from", "to"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_conflicts_total",
			Help:      "Lost optimistic writes and lock contention by operation.",
		}, []string{"operation"}),
	}

	r.registry.MustRegister(
		r.operations,
		r.transitions,
		r.conflicts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveOperation records one service call
func (r *PrometheusRecorder) ObserveOperation(operation, outcome string, seconds float64) {
	r.operations.WithLabelValues(operation, outcome).Observe(seconds)
}

// IncTransition counts a status change
func (r *PrometheusRecorder) IncTransition(from, to string) {
	r.transitions.WithLabelValues(from, to).Inc()
}

// IncWriteConflict counts a write conflict
func (r *PrometheusRecorder) IncWriteConflict(operation string) {
	r.conflicts.WithLabelValues(operation).Inc()
}

// Registry exposes the underlying registry
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
