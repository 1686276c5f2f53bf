// Package metrics exposes Prometheus instrumentation for the HTTP API and the
// record store.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server instance.
type Metrics struct {
	reg *prometheus.Registry

	requests            *prometheus.CounterVec
	duration            *prometheus.HistogramVec
	records             prometheus.Gauge
	persistenceFailures prometheus.Counter
	rateLimited         *prometheus.CounterVec
}

// New creates the collectors on a private registry, along with the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "userdb",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "userdb",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "userdb",
			Name:      "records",
			Help:      "Number of user records currently stored.",
		}),
		persistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "userdb",
			Name:      "persistence_failures_total",
			Help:      "Mutations rejected because the collection could not be saved.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "userdb",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by tier.",
		}, []string{"tier"}),
	}
	reg.MustRegister(
		m.requests, m.duration, m.records, m.persistenceFailures, m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one served request. route is the mux pattern, not
// the raw path, to keep cardinality bounded.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route, method).Observe(d.Seconds())
}

// SetRecords sets the stored record count.
func (m *Metrics) SetRecords(n int) {
	m.records.Set(float64(n))
}

// PersistenceFailed counts one failed save.
func (m *Metrics) PersistenceFailed() {
	m.persistenceFailures.Inc()
}

// RateLimited counts one rejected request.
func (m *Metrics) RateLimited(tier string) {
	m.rateLimited.WithLabelValues(tier).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
