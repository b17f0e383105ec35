// Package metrics owns the Prometheus registry of the console service: HTTP
// request instrumentation plus business counters for audit events, e-mails,
// application lifecycle transitions and background tasks.
//
// Every recording method is safe on a nil *Metrics so collaborators can be
// built without instrumentation in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "console"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	auditEvents  *prometheus.CounterVec
	emails       *prometheus.CounterVec
	applications *prometheus.CounterVec
	tasks        *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		auditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_total",
			Help:      "Audit records written, by reference type and event.",
		}, []string{"reference_type", "event"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "E-mails handled, by template and outcome.",
		}, []string{"template", "outcome"}),
		applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_transitions_total",
			Help:      "Application lifecycle transitions.",
		}, []string{"transition"}),
		tasks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Background task execution time, by type and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.auditEvents,
		m.emails,
		m.applications,
		m.tasks,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Email outcomes.
const (
	EmailSent    = "sent"
	EmailFailed  = "failed"
	EmailDropped = "dropped"
)

// AuditRecorded counts a persisted audit record.
func (m *Metrics) AuditRecorded(referenceType, event string) {
	if m == nil {
		return
	}
	m.auditEvents.WithLabelValues(referenceType, event).Inc()
}

// EmailHandled counts an e-mail by template and outcome.
func (m *Metrics) EmailHandled(template, outcome string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(template, outcome).Inc()
}

// ApplicationTransition counts an application lifecycle change such as
// "created" or "archived".
func (m *Metrics) ApplicationTransition(transition string) {
	if m == nil {
		return
	}
	m.applications.WithLabelValues(transition).Inc()
}

// TaskObserved records a finished background task. Its signature matches
// task.WorkerPool.SetObserver.
func (m *Metrics) TaskObserved(taskType string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.tasks.WithLabelValues(taskType, outcome).Observe(elapsed.Seconds())
}

// Middleware instruments HTTP handlers. Requests are labelled by chi route
// pattern so path parameters do not inflate cardinality; unmatched requests
// are labelled "unmatched".
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the original writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
