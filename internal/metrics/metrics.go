// Package metrics exposes Prometheus counters for dialog saves, duplicate
// rejections and published events on a private registry.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-swmodule/pkg/events"
)

// Metrics owns the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	saveTotal       *prometheus.CounterVec
	saveErrorTotal  *prometheus.CounterVec
	saveDuration    *prometheus.HistogramVec
	duplicateTotal  prometheus.Counter
	validationTotal prometheus.Counter
	eventsPublished *prometheus.CounterVec
}

// New registers the dialog collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		saveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swmodule_dialog_save_total",
				Help: "Number of successful dialog saves by mode.",
			},
			[]string{"mode"},
		),
		saveErrorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swmodule_dialog_save_error_total",
				Help: "Number of dialog saves that failed in the repository by mode.",
			},
			[]string{"mode"},
		),
		saveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swmodule_dialog_save_duration_seconds",
				Help:    "Time taken to save a software module.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		duplicateTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "swmodule_dialog_duplicate_total",
				Help: "Number of saves rejected because name, version and type already exist.",
			},
		),
		validationTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "swmodule_dialog_validation_error_total",
				Help: "Number of saves rejected by field validation.",
			},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swmodule_events_published_total",
				Help: "Number of software module events published by type.",
			},
			[]string{"type"},
		),
	}
	m.registry.MustRegister(
		m.saveTotal,
		m.saveErrorTotal,
		m.saveDuration,
		m.duplicateTotal,
		m.validationTotal,
		m.eventsPublished,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SaveCompleted records a save attempt that reached the repository.
func (m *Metrics) SaveCompleted(mode string, elapsed time.Duration, err error) {
	m.saveDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if err != nil {
		m.saveErrorTotal.WithLabelValues(mode).Inc()
		return
	}
	m.saveTotal.WithLabelValues(mode).Inc()
}

// DuplicateRejected records a save blocked by the duplicate check.
func (m *Metrics) DuplicateRejected() {
	m.duplicateTotal.Inc()
}

// ValidationFailed records a save blocked by field validation.
func (m *Metrics) ValidationFailed() {
	m.validationTotal.Inc()
}

// Subscribe counts every event published on bus. The returned function
// detaches the subscriber.
func (m *Metrics) Subscribe(bus *events.Bus) func() {
	return bus.Subscribe(func(_ context.Context, event events.SoftwareModuleEvent) {
		m.eventsPublished.WithLabelValues(string(event.Type)).Inc()
	})
}
