// Package metrics holds the Prometheus collectors of the API
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"empregol-backend/internal/status"
)

const namespace = "empregol"

// Metrics is the set of collectors registered on its own registry
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ApplicationsCreated prometheus.Counter
	StatusChanges       *prometheus.CounterVec
	SavedJobToggles     *prometheus.CounterVec
}

// New creates and registers every collector, including the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ApplicationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_created_total",
			Help:      "Applications (candidaturas) submitted.",
		}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_status_changes_total",
			Help:      "Application status changes by target status.",
		}, []string{"status"}),
		SavedJobToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saved_job_toggles_total",
			Help:      "Saved job toggles by resulting action.",
		}, []string{"action"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.ApplicationsCreated,
		m.StatusChanges,
		m.SavedJobToggles,
	)

	// every status shows up on the first scrape
	for _, s := range status.All {
		m.StatusChanges.WithLabelValues(string(s))
	}
	m.SavedJobToggles.WithLabelValues("saved")
	m.SavedJobToggles.WithLabelValues("unsaved")

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ApplicationCreated counts a new application. Safe on a nil receiver.
func (m *Metrics) ApplicationCreated() {
	if m == nil {
		return
	}
	m.ApplicationsCreated.Inc()
}

// StatusChanged counts a status change to s. Safe on a nil receiver.
func (m *Metrics) StatusChanged(s status.Status) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(string(s)).Inc()
}

// SavedJobToggled counts a save (saved=true) or unsave. Safe on a nil receiver.
func (m *Metrics) SavedJobToggled(saved bool) {
	if m == nil {
		return
	}
	action := "unsaved"
	if saved {
		action = "saved"
	}
	m.SavedJobToggles.WithLabelValues(action).Inc()
}
