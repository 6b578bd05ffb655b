package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/khanhnv2901/seca-setcookie/internal/checker"
)

const namespace = "seca_setcookie"

// Recorder keeps run counters in a private registry so a one-shot CLI run can
// dump them for the node_exporter textfile collector.
type Recorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	findings *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_runs_total",
			Help:      "Plugin invocations by terminal status.",
		}, []string{"plugin", "status"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Reported findings by severity.",
		}, []string{"plugin", "severity"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plugin_run_duration_seconds",
			Help:      "Wall time of a single plugin invocation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"plugin"}),
	}
	r.registry.MustRegister(r.runs, r.findings, r.duration)
	return r
}

// Observe records one completed invocation.
func (r *Recorder) Observe(result checker.RunResult) {
	r.runs.WithLabelValues(result.Plugin, result.Status.String()).Inc()
	for _, f := range result.Findings {
		severity := f.Severity.String()
		if severity == "" {
			severity = "unset"
		}
		r.findings.WithLabelValues(result.Plugin, severity).Inc()
	}
	r.duration.WithLabelValues(result.Plugin).Observe(result.DurationMS / 1000)
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
