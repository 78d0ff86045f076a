// Package metrics records batch parse statistics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ccollicutt/mipscan/pkg/analyzer"
)

const namespace = "mipscan"

// Recorder collects parse metrics on its own registry. It implements
// analyzer.Observer and is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	// parsed counts logs that produced a summary.
	// Labels: dialect, solution (solution status name, or Unknown)
	parsed *prometheus.CounterVec

	// failures counts logs that could not be loaded, detected or parsed.
	// Labels: dialect (empty dialect is reported as "unknown")
	failures *prometheus.CounterVec

	// duration measures time spent per log.
	// Labels: dialect
	duration *prometheus.HistogramVec

	// progressRows counts progress table rows extracted.
	// Labels: dialect
	progressRows *prometheus.CounterVec
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		parsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "logs_total",
			Help:      "Solver logs parsed into a run summary",
		}, []string{"dialect", "solution"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "failures_total",
			Help:      "Solver logs that could not be parsed",
		}, []string{"dialect"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "duration_seconds",
			Help:      "Time to parse one solver log",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"dialect"}),
		progressRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "progress_rows_total",
			Help:      "Progress table rows extracted from solver logs",
		}, []string{"dialect"}),
	}
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records one finished log.
func (r *Recorder) ObserveRun(res *analyzer.RunResult) {
	dialect := res.Dialect
	if dialect == "" {
		dialect = "unknown"
	}

	r.duration.WithLabelValues(dialect).Observe(res.Duration.Seconds())

	if res.Err != nil {
		r.failures.WithLabelValues(dialect).Inc()
		return
	}

	solution := "Unknown"
	if res.Summary.SolCode != nil {
		solution = res.Summary.SolCode.String()
	}
	r.parsed.WithLabelValues(dialect, solution).Inc()
	r.progressRows.WithLabelValues(dialect).Add(float64(res.Summary.Progress.Len()))
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
