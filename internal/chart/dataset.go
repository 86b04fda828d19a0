// internal/chart/dataset.go
// Package chart renders grouped bar charts of sweep artifacts: levels on the
// X axis, one bar per configuration, one chart per metric.
package chart

import (
	"fmt"

	"github.com/mwiater/sweep/internal/sweep"
)

// allLevels is the single category of artifacts that merged their levels.
const allLevels = "all levels"

// Series is the bars of one configuration across the categories.
type Series struct {
	Label  string
	Values []float64
}

// Dataset is everything one chart shows.
type Dataset struct {
	Metric     string
	Categories []string
	Series     []Series
}

// BuildDatasets turns an artifact into one dataset per metric, in artifact
// order. Values are mean milliseconds. A configuration that lacks a metric
// or level contributes a zero bar.
func BuildDatasets(a *sweep.Artifact) ([]Dataset, error) {
	perLevel := a.Variant.Policy() == sweep.PolicyPerLevel
	categories := []string{allLevels}
	if perLevel {
		categories = a.LevelNames()
	}

	var out []Dataset
	for _, metric := range a.MetricNames() {
		ds := Dataset{Metric: metric, Categories: categories}
		for _, cfg := range a.Configurations {
			s := Series{Label: sweep.ParseFeatureConfiguration(cfg.Key).Label(), Values: make([]float64, len(categories))}
			m, ok := cfg.Metric(metric)
			if !ok {
				ds.Series = append(ds.Series, s)
				continue
			}
			for i, category := range categories {
				var (
					v   float64
					err error
				)
				if perLevel {
					if _, has := m.Level(category); !has {
						continue
					}
					v, err = m.LevelMeanMillis(a.Variant, category)
				} else {
					v, err = m.MeanMillis(a.Variant)
				}
				if err != nil {
					return nil, fmt.Errorf("chart %s for %s: %w", metric, s.Label, err)
				}
				s.Values[i] = v
			}
			ds.Series = append(ds.Series, s)
		}
		out = append(out, ds)
	}
	return out, nil
}
