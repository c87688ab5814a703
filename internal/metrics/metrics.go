// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// the mutation pipeline. Every App owns its own registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-backoffice/internal/httpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one service. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	service       string
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	mutations     *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

func New(service string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		service:  service,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_mutations_total",
				Help: "Create, update and delete attempts by entity and outcome",
			},
			[]string{"entity", "op", "outcome"},
		),
		invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_view_invalidations_total",
				Help: "View keys published for refresh",
			},
			[]string{"view"},
		),
	}
	m.Registry.MustRegister(
		m.requests, m.duration, m.mutations, m.invalidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records request count and latency, labelled by the matched
// route pattern so ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := httpx.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		m.requests.WithLabelValues(m.service, r.Method, path, strconv.Itoa(rec.Status)).Inc()
		m.duration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Mutation counts one mutation attempt.
func (m *Metrics) Mutation(entity, op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(entity, op, outcome).Inc()
}

// Invalidated counts published view keys.
func (m *Metrics) Invalidated(keys ...string) {
	if m == nil {
		return
	}
	for _, k := range keys {
		m.invalidations.WithLabelValues(k).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
