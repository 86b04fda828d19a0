// internal/sweep/stats.go
package sweep

import (
	"errors"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// MillisecondsPerSecond converts the benchmark's seconds into reported milliseconds.
const MillisecondsPerSecond = 1000.0

// Summary is the reduction of one sample sequence, in milliseconds.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Median float64 `json:"median"`
}

// Reduce computes mean, population standard deviation and median of samples
// given in seconds, reported in milliseconds. An empty input is an error,
// never a zero mean.
func Reduce(samples []float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, &EmptySampleError{}
	}
	scaled := make([]float64, len(samples))
	for i, v := range samples {
		scaled[i] = v * MillisecondsPerSecond
	}
	mean, std := stat.PopMeanStdDev(scaled, nil)
	return Summary{
		Count:  len(scaled),
		Mean:   mean,
		StdDev: std,
		Median: median(scaled),
	}, nil
}

// median averages the two middle values for even counts. gonum's quantile
// estimators pick one of them instead.
func median(xs []float64) float64 {
	sorted := append([]float64{}, xs...)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// EntryStats holds the reduced statistics of one configuration.
type EntryStats struct {
	Configuration FeatureConfiguration
	Metrics       []string
	Levels        []string
	// Overall reduces each metric across all levels.
	Overall map[string]Summary
	// PerLevel maps metric -> level -> summary. Nil under the flat policy.
	PerLevel map[string]map[string]Summary
}

// Key is the configuration key of the reduced entry.
func (s EntryStats) Key() string { return s.Configuration.Key() }

// ReduceEntry reduces every metric of e, and every level when e kept levels apart.
func ReduceEntry(e *Entry) (EntryStats, error) {
	stats := EntryStats{
		Configuration: e.Configuration,
		Metrics:       e.Metrics(),
		Levels:        e.Levels(),
		Overall:       make(map[string]Summary, len(e.metrics)),
	}
	if e.policy == PolicyPerLevel {
		stats.PerLevel = make(map[string]map[string]Summary, len(e.metrics))
	}

	for _, metric := range e.metrics {
		overall, err := reduceMetric(e, metric, "", e.Samples(metric))
		if err != nil {
			return EntryStats{}, err
		}
		stats.Overall[metric] = overall

		if e.policy != PolicyPerLevel {
			continue
		}
		perLevel := make(map[string]Summary, len(e.levels))
		for _, level := range e.levels {
			summary, err := reduceMetric(e, metric, level, e.LevelSamples(metric, level))
			if err != nil {
				return EntryStats{}, err
			}
			perLevel[level] = summary
		}
		stats.PerLevel[metric] = perLevel
	}
	return stats, nil
}

func reduceMetric(e *Entry, metric, level string, samples []float64) (Summary, error) {
	summary, err := Reduce(samples)
	var empty *EmptySampleError
	if errors.As(err, &empty) {
		return Summary{}, &EmptySampleError{Configuration: e.Key(), Metric: metric, Level: level}
	}
	return summary, err
}
