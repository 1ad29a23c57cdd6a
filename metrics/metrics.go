package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flightchat"

// Outcome labels for provider calls.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the instruments shared by the HTTP layer and the provider
// clients. All fields are safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ProviderRequests    *prometheus.CounterVec
	ProviderDuration    *prometheus.HistogramVec
}

// New registers every instrument on a fresh registry, so tests can build as
// many as they like without colliding on the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Outbound provider calls, by operation and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Outbound provider call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPRequestDuration, m.ProviderRequests, m.ProviderDuration)
	return m
}

// ObserveProvider records one outbound call. A nil receiver is a no-op.
func (m *Metrics) ObserveProvider(provider, operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, operation, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider, operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
