// Package metrics records per-run scrape and export counters in a Prometheus registry.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "expat_events"

// Row outcomes that are not skip reasons.
const (
	OutcomeEvent = "event"
)

// Metrics holds the collectors for one process. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rows           *prometheus.CounterVec
	fetches        *prometheus.CounterVec
	categoryEvents *prometheus.GaugeVec
	runs           *prometheus.CounterVec
	runDuration    prometheus.Summary
	lastSuccessTS  prometheus.Gauge
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.rows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_total",
		Help:      "Table rows processed by source and outcome",
	}, []string{"source", "outcome"})
	m.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetches_total",
		Help:      "Page fetches by source and status",
	}, []string{"source", "status"})
	m.categoryEvents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "category_events",
		Help:      "Events exported per category in the last successful export",
	}, []string{"category"})
	m.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Pipeline runs by status",
	}, []string{"status"})
	m.runDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Time spent on a full fetch and export run",
	})
	m.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful run",
	})

	m.registry.MustRegister(
		m.rows, m.fetches, m.categoryEvents,
		m.runs, m.runDuration, m.lastSuccessTS,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Row counts one processed row. outcome is OutcomeEvent or a skip reason.
func (m *Metrics) Row(source, outcome string) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(source, outcome).Inc()
}

// Fetch counts one page fetch.
func (m *Metrics) Fetch(source string, err error) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(source, status(err)).Inc()
}

// Exported records the number of events written for a category.
func (m *Metrics) Exported(category string, events int) {
	if m == nil {
		return
	}
	m.categoryEvents.WithLabelValues(category).Set(float64(events))
}

// Run records the outcome of a pipeline run that started at start.
func (m *Metrics) Run(start time.Time, err error) {
	if m == nil {
		return
	}
	m.runDuration.Observe(time.Since(start).Seconds())
	m.runs.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.lastSuccessTS.Set(float64(time.Now().Unix()))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry to path for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
