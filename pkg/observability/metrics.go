package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exposed by the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	EvaluationsTotal    *prometheus.CounterVec
	SimulationDuration  prometheus.Histogram
	CacheHitsTotal      *prometheus.CounterVec
}

// NewMetrics creates the service metric collectors on a dedicated registry.
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total HTTP requests by method, path and status code.",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and path.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		EvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "consolidation_evaluations_total",
			Help:        "Customer eligibility evaluations by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		SimulationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "payoff_simulation_duration_seconds",
			Help:        "Time spent composing repayment scenarios per request.",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		CacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "evaluation_cache_requests_total",
			Help:        "Evaluation cache lookups by result.",
			ConstLabels: labels,
		}, []string{"result"}),
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records a completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
