package builder

import (
	"fmt"
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/harrison/vtoggle/internal/models"
)

// Metrics counts run outcomes in a private Prometheus registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prom.Registry
	runs        *prom.CounterVec
	files       *prom.CounterVec
	regions     *prom.CounterVec
	runDuration prom.Gauge
}

// NewMetrics constructs and registers the vtoggle metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vtoggle",
			Name:      "runs_total",
			Help:      "Completed runs by outcome",
		}, []string{"outcome"}),
		files: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vtoggle",
			Name:      "files_total",
			Help:      "Processed files by result",
		}, []string{"result"}),
		regions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vtoggle",
			Name:      "regions_total",
			Help:      "Tagged regions by feature and outcome",
		}, []string{"feature", "outcome"}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: "vtoggle",
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run",
		}),
	}
	m.registry.MustRegister(m.runs, m.files, m.regions, m.runDuration)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prom.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFile records one file result.
func (m *Metrics) ObserveFile(r models.FileResult) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(strings.ToLower(r.Status)).Inc()
	for _, f := range r.Features {
		m.regions.WithLabelValues(f.Feature, "kept").Add(float64(f.Kept))
		m.regions.WithLabelValues(f.Feature, "removed").Add(float64(f.Removed))
	}
}

// ObserveRun records the outcome and duration of a run.
func (m *Metrics) ObserveRun(r *models.RunResult) {
	if m == nil || r == nil {
		return
	}
	outcome := "success"
	if r.Failed > 0 {
		outcome = "failed"
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Set(r.Duration.Seconds())
}

// WriteTextfile writes the metrics in Prometheus text format, suitable for
// the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prom.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
