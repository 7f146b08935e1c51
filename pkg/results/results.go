// Package results presents the outcome of a plan run, as a table for people
// and as a Prometheus textfile for node_exporter's textfile collector.
package results

import (
	"io"
	"time"

	"github.com/gravitational/trace"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/solidDoWant/quick-timer/pkg/runner"
)

const metricNamespace = "quick_timer"

func status(result runner.StepResult) string {
	if result.Err != nil {
		return "failed"
	}
	return "ok"
}

func elapsed(result runner.StepResult) string {
	if result.Err != nil {
		return "-"
	}
	return result.Elapsed.Round(time.Microsecond).String()
}

// Writes one row per step, in the order the steps ran.
func WriteTable(w io.Writer, stepResults []runner.StepResult) error {
	table := tablewriter.NewWriter(w)
	table.Header("Tag", "Status", "Elapsed")

	for _, result := range stepResults {
		if err := table.Append(result.Tag, status(result), elapsed(result)); err != nil {
			return trace.Wrap(err, "failed to add step %q to the results table", result.Tag)
		}
	}

	return trace.Wrap(table.Render(), "failed to render results table")
}

type Metrics struct {
	registry     *prometheus.Registry
	stepDuration *prometheus.GaugeVec
	stepSuccess  *prometheus.GaugeVec
	lastRun      prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      "step_duration_seconds",
				Help:      "How long the step took the last time it succeeded",
			},
			[]string{"tag"},
		),
		stepSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      "step_success",
				Help:      "Whether the step succeeded the last time it ran (1) or not (0)",
			},
			[]string{"tag"},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      "plan_last_run_timestamp_seconds",
				Help:      "Unix time of the last plan run",
			},
		),
	}

	m.registry.MustRegister(m.stepDuration, m.stepSuccess, m.lastRun)
	return m
}

// Records the outcome of each step. Durations are only updated for steps that
// succeeded.
func (m *Metrics) Record(stepResults []runner.StepResult) {
	for _, result := range stepResults {
		if result.Err != nil {
			m.stepSuccess.WithLabelValues(result.Tag).Set(0)
			continue
		}

		m.stepSuccess.WithLabelValues(result.Tag).Set(1)
		m.stepDuration.WithLabelValues(result.Tag).Set(result.Elapsed.Seconds())
	}
	m.lastRun.SetToCurrentTime()
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Atomically replaces the file at path with the recorded metrics.
func (m *Metrics) WriteTextfile(path string) error {
	return trace.Wrap(prometheus.WriteToTextfile(path, m.registry), "failed to write metrics to %q", path)
}
