// Package metrics owns the Prometheus collectors recorded across the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/steward/pkg/middleware"
)

// Registry holds a private Prometheus registry and the service collectors.
// Each Registry is independent, so tests may create as many as they need.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequests          *prometheus.CounterVec
	HTTPDuration          *prometheus.HistogramVec
	Decisions             *prometheus.CounterVec
	NotifyFailures        prometheus.Counter
	Investigations        *prometheus.CounterVec
	InvestigationDuration prometheus.Histogram
	IntakeMessages        *prometheus.CounterVec
}

// New creates a Registry with collectors under the given namespace.
func New(namespace string) *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),

		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Recorded review decisions by outcome status.",
		}, []string{"status"}),

		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_notify_failures_total",
			Help:      "Decision notifications that failed after the decision was recorded.",
		}),

		Investigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "investigations_total",
			Help:      "Investigation runs by outcome (resolved, error, stale, cancelled).",
		}, []string{"outcome"}),

		InvestigationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "investigation_duration_seconds",
			Help:      "Time from investigation start to resolution.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 3, 5, 10, 30},
		}),

		IntakeMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_messages_total",
			Help:      "Intake messages by result (created, rejected, skipped).",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.HTTPRequests,
		r.HTTPDuration,
		r.Decisions,
		r.NotifyFailures,
		r.Investigations,
		r.InvestigationDuration,
		r.IntakeMessages,
	)

	return r
}

// Gatherer exposes the underlying registry for inspection.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Middleware records request counts and latency for every request it wraps.
func (r *Registry) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := middleware.NewStatusRecorder(w)
			next.ServeHTTP(rec, req)

			r.HTTPRequests.WithLabelValues(req.Method, strconv.Itoa(rec.Status)).Inc()
			r.HTTPDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
		})
	}
}
