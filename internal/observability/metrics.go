package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	jobmetrics "github.com/agentic-platform/insights/internal/jobs"
)

// Metrics collects the Prometheus metrics of the dashboard server.
type Metrics struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	chartsUnavailable *prometheus.CounterVec
	invariants        *prometheus.CounterVec
	exports           *prometheus.CounterVec
	jobs              *jobmetrics.Metrics
}

// NewMetrics builds a private registry with the HTTP, render and job metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_http_requests_total",
		Help: "HTTP requests partitioned by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insights_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	unavailable := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_chart_unavailable_total",
		Help: "Chart regions rendered with the data unavailable fallback.",
	}, []string{"chart"})
	invariants := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_invariant_violations_total",
		Help: "Dataset invariants found violated at render time.",
	}, []string{"invariant"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_exports_total",
		Help: "Dashboard exports partitioned by format and outcome.",
	}, []string{"format", "status"})
	registry.MustRegister(requests, duration, unavailable, invariants, exports)
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:     requests,
		requestDuration:   duration,
		chartsUnavailable: unavailable,
		invariants:        invariants,
		exports:           exports,
		jobs:              jobmetrics.NewMetrics(registry),
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ChartUnavailable counts a chart region that fell back to its placeholder.
func (m *Metrics) ChartUnavailable(chart string) {
	if m == nil {
		return
	}
	m.chartsUnavailable.WithLabelValues(chart).Inc()
}

// InvariantViolated counts a dataset invariant that did not hold.
func (m *Metrics) InvariantViolated(name string) {
	if m == nil {
		return
	}
	m.invariants.WithLabelValues(name).Inc()
}

// ExportFinished counts an export attempt.
func (m *Metrics) ExportFinished(format string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.exports.WithLabelValues(format, status).Inc()
}

// Jobs exposes the background job collectors sharing this registry.
func (m *Metrics) Jobs() *jobmetrics.Metrics {
	if m == nil {
		return nil
	}
	return m.jobs
}

// Registerer exposes the registry for custom collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
