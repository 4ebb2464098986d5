package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonMunkholm/f1load/internal/core"
)

// Run outcomes.
const (
	OutcomeCommitted = "committed"
	OutcomeAborted   = "aborted"
)

// Metrics records load outcomes on a private registry. The loader is a
// short-lived process, so the registry is written out as a node exporter
// textfile instead of being scraped.
type Metrics struct {
	registry *prometheus.Registry

	rowsTotal   *prometheus.CounterVec
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewMetrics creates the loader metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "f1load",
			Name:      "rows_total",
			Help:      "Rows committed per entity, by result (inserted or skipped).",
		}, []string{"entity", "result"}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "f1load",
			Name:      "runs_total",
			Help:      "Load runs by outcome.",
		}, []string{"outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "f1load",
			Name:      "run_duration_seconds",
			Help:      "Duration of load runs, committed or aborted.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "f1load",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last committed run.",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observeCommitted(r *Report, now time.Time) {
	for _, s := range r.Stages {
		m.rowsTotal.WithLabelValues(string(s.Kind), core.Inserted.String()).Add(float64(s.Inserted))
		m.rowsTotal.WithLabelValues(string(s.Kind), core.Skipped.String()).Add(float64(s.Skipped))
	}
	m.runsTotal.WithLabelValues(OutcomeCommitted).Inc()
	m.runDuration.Observe(r.Duration.Seconds())
	m.lastSuccess.Set(float64(now.Unix()))
}

func (m *Metrics) observeAborted(d time.Duration) {
	m.runsTotal.WithLabelValues(OutcomeAborted).Inc()
	m.runDuration.Observe(d.Seconds())
}

// WriteTextfile writes the current metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
