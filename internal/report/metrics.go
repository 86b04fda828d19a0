package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mwiater/sweep/internal/sweep"
)

// overallLevel labels statistics reduced across every level.
const overallLevel = "all"

// NewRegistry builds a registry holding the statistics of r as gauges.
func NewRegistry(r *sweep.Report) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	labels := []string{"group", "configuration", "metric", "level"}
	mean := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sweep_metric_mean_milliseconds",
		Help: "Mean of a benchmark metric in milliseconds",
	}, labels)
	std := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sweep_metric_stddev_milliseconds",
		Help: "Population standard deviation of a benchmark metric in milliseconds",
	}, labels)
	samples := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sweep_metric_samples",
		Help: "Number of samples a benchmark metric was reduced from",
	}, labels)
	runs := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sweep_runs",
		Help: "Benchmark runs executed by the last sweep of a group",
	}, []string{"group"})

	runs.WithLabelValues(r.Group).Set(float64(r.Runs))
	set := func(key, metric, level string, s sweep.Summary) {
		mean.WithLabelValues(r.Group, key, metric, level).Set(s.Mean)
		std.WithLabelValues(r.Group, key, metric, level).Set(s.StdDev)
		samples.WithLabelValues(r.Group, key, metric, level).Set(float64(s.Count))
	}
	for _, s := range r.Stats {
		key := s.Configuration.Label()
		for _, metric := range s.Metrics {
			set(key, metric, overallLevel, s.Overall[metric])
			for level, summary := range s.PerLevel[metric] {
				set(key, metric, level, summary)
			}
		}
	}
	return reg
}

// WriteTextfile writes the statistics of r in the Prometheus text format,
// for collection by node_exporter's textfile collector.
func WriteTextfile(path string, r *sweep.Report) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, NewRegistry(r)); err != nil {
		return fmt.Errorf("error writing metrics file: %w", err)
	}
	return nil
}
