// internal/sweep/accumulator.go
package sweep

import (
	"fmt"
	"slices"
)

// Policy decides how samples from different levels are combined.
type Policy int

const (
	// PolicyFlat appends every level's samples to one sequence per metric.
	PolicyFlat Policy = iota
	// PolicyPerLevel keeps samples apart per level.
	PolicyPerLevel
)

func (p Policy) String() string {
	switch p {
	case PolicyFlat:
		return "flat"
	case PolicyPerLevel:
		return "per-level"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Entry is everything accumulated for one configuration.
type Entry struct {
	Configuration FeatureConfiguration

	policy  Policy
	metrics []string
	flat    map[string][]float64
	levels  []string
	byLevel map[string]map[string][]float64 // metric -> level -> samples
}

// Key is the configuration key the entry is stored under.
func (e *Entry) Key() string { return e.Configuration.Key() }

// Metrics returns the established metric names, sorted.
func (e *Entry) Metrics() []string { return append([]string{}, e.metrics...) }

// Levels returns the levels merged so far, in first-merge order.
func (e *Entry) Levels() []string { return append([]string{}, e.levels...) }

// Policy is the policy the entry was accumulated under.
func (e *Entry) Policy() Policy { return e.policy }

// Samples returns every sample of metric in accumulation order. Under the
// per-level policy that is the concatenation of the levels in merge order.
func (e *Entry) Samples(metric string) []float64 {
	if e.policy == PolicyFlat {
		return append([]float64{}, e.flat[metric]...)
	}
	var out []float64
	for _, level := range e.levels {
		out = append(out, e.byLevel[metric][level]...)
	}
	return out
}

// LevelSamples returns the samples of metric recorded for level. It is
// always nil under the flat policy.
func (e *Entry) LevelSamples(metric, level string) []float64 {
	if e.policy == PolicyFlat {
		return nil
	}
	return append([]float64{}, e.byLevel[metric][level]...)
}

// Accumulator merges per-run sample sets into per-configuration entries.
// It is owned by a single sweep and is not safe for concurrent use.
type Accumulator struct {
	policy  Policy
	order   []string
	entries map[string]*Entry
}

// NewAccumulator returns an empty accumulator using policy.
func NewAccumulator(policy Policy) *Accumulator {
	return &Accumulator{policy: policy, entries: make(map[string]*Entry)}
}

// Policy reports the accumulation policy.
func (a *Accumulator) Policy() Policy { return a.policy }

// Merge adds the samples of one (configuration, level) run. The first merge
// for a configuration fixes its metric names; later merges must match them.
// A failed merge leaves the accumulator unchanged.
func (a *Accumulator) Merge(cfg FeatureConfiguration, level string, set MetricSampleSet) error {
	key := cfg.Key()
	names := set.Names()

	entry, ok := a.entries[key]
	if ok && !slices.Equal(entry.metrics, names) {
		return &SchemaMismatchError{
			Configuration: key,
			Level:         level,
			Expected:      entry.Metrics(),
			Got:           names,
		}
	}
	if !ok {
		entry = &Entry{
			Configuration: append(FeatureConfiguration{}, cfg...),
			policy:        a.policy,
			metrics:       names,
			flat:          make(map[string][]float64, len(names)),
			byLevel:       make(map[string]map[string][]float64, len(names)),
		}
		a.entries[key] = entry
		a.order = append(a.order, key)
	}

	if !slices.Contains(entry.levels, level) {
		entry.levels = append(entry.levels, level)
	}
	for _, name := range names {
		samples := set.Samples(name)
		switch a.policy {
		case PolicyFlat:
			entry.flat[name] = append(entry.flat[name], samples...)
		default:
			perLevel := entry.byLevel[name]
			if perLevel == nil {
				perLevel = make(map[string][]float64)
				entry.byLevel[name] = perLevel
			}
			perLevel[level] = append(perLevel[level], samples...)
		}
	}
	return nil
}

// Entries returns the entries in the order their configurations were first merged.
func (a *Accumulator) Entries() []*Entry {
	out := make([]*Entry, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, a.entries[key])
	}
	return out
}

// Entry looks up the entry for a configuration key.
func (a *Accumulator) Entry(key string) (*Entry, bool) {
	e, ok := a.entries[key]
	return e, ok
}
