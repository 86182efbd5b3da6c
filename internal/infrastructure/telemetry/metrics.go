// Package telemetry exposes Prometheus metrics for HTTP traffic, pole
// allocation and database access, and sets up OpenTelemetry trace and log
// export over OTLP.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "isp"

// HTTPDurationBuckets are the request latency buckets in seconds
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// DBDurationBuckets are the query latency buckets in seconds
var DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Metrics owns a private registry and the application-level collectors
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	allocations        *prometheus.CounterVec
	allocationAttempts prometheus.Histogram
}

// NewMetrics creates the registry with Go runtime and process collectors
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   HTTPDurationBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "pole_allocations_total",
			Help:      "Pole allocation outcomes.",
		}, []string{"outcome"}),
		allocationAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "pole_allocation_attempts",
			Help:      "Reserve attempts needed per allocation.",
			Buckets:   []float64{1, 2, 3, 5, 8},
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.allocations,
		m.allocationAttempts,
	)
	return m
}

// Registry returns the underlying registry, for registering extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAllocation records one allocation outcome and the reserve attempts it took
func (m *Metrics) ObserveAllocation(outcome string, attempts int) {
	m.allocations.WithLabelValues(outcome).Inc()
	if attempts > 0 {
		m.allocationAttempts.Observe(float64(attempts))
	}
}

// ObserveHTTP records a finished request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement
func (m *Metrics) TrackInFlight() func() {
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}
