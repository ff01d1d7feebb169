// Package metrics holds the Prometheus instrumentation for a
// visualization run. There is no scrape endpoint: runs are batch
// processes, so metrics land in a textfile snapshot that
// node_exporter's textfile collector can pick up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the
// pipeline.
type Metrics struct {
	FilesProcessed   prometheus.Counter
	RecordsProcessed prometheus.Counter
	MeshPoints       prometheus.Counter
	ParseFailures    prometheus.Counter
	RecordDuration   prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all pipeline metrics with the
// default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesProcessed,
		m.RecordsProcessed,
		m.MeshPoints,
		m.ParseFailures,
		m.RecordDuration,
	)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics against a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		m.FilesProcessed,
		m.RecordsProcessed,
		m.MeshPoints,
		m.ParseFailures,
		m.RecordDuration,
	)
	m.gatherer = reg
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakeviz",
			Name:      "files_processed_total",
			Help:      "Total location files parsed and rendered.",
		}),
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakeviz",
			Name:      "records_processed_total",
			Help:      "Total uncertainty records turned into surfaces.",
		}),
		MeshPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakeviz",
			Name:      "mesh_points_total",
			Help:      "Total mesh vertices projected to geographic coordinates.",
		}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakeviz",
			Name:      "parse_failures_total",
			Help:      "Total location files rejected by the parser.",
		}),
		RecordDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quakeviz",
			Name:      "record_duration_seconds",
			Help:      "Time to build, project, and hand off one record's surface.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// WriteFile snapshots every metric in this instance's registry to path
// in the Prometheus text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
