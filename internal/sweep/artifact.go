// internal/sweep/artifact.go
package sweep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Variant selects the layout of the persisted statistics artifact.
type Variant string

const (
	// VariantFlat: configuration -> metric -> [seconds...] merged across levels.
	VariantFlat Variant = "flat"
	// VariantFlatMean: configuration -> metric -> mean in ms across levels.
	VariantFlatMean Variant = "flat-mean"
	// VariantPerLevel: configuration -> metric -> level -> [seconds...].
	VariantPerLevel Variant = "per-level"
	// VariantPerLevelStats: configuration -> metric -> level -> {mean, std} in ms.
	VariantPerLevelStats Variant = "per-level-stats"
)

// DefaultVariant matches the layout the plotting tools expect.
const DefaultVariant = VariantPerLevel

// Variants lists every supported variant.
var Variants = []Variant{VariantFlat, VariantFlatMean, VariantPerLevel, VariantPerLevelStats}

// ParseVariant validates a variant name. An empty name selects DefaultVariant.
func ParseVariant(s string) (Variant, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultVariant, nil
	}
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Variants, v) {
		return "", fmt.Errorf("unknown variant %q (expected one of %s)", s, joinVariants())
	}
	return v, nil
}

// Policy is the accumulation policy the variant needs.
func (v Variant) Policy() Policy {
	switch v {
	case VariantPerLevel, VariantPerLevelStats:
		return PolicyPerLevel
	default:
		return PolicyFlat
	}
}

func joinVariants() string {
	names := make([]string, len(Variants))
	for i, v := range Variants {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// Artifact is the persisted aggregate of one sweep. Configurations keep group
// order, metrics are sorted, and levels keep level-list order.
type Artifact struct {
	Variant        Variant
	Configurations []ArtifactConfiguration
}

// ArtifactConfiguration is the data of one configuration key.
type ArtifactConfiguration struct {
	Key     string
	Metrics []ArtifactMetric
}

// ArtifactMetric carries exactly one of Samples, Mean or Levels depending on the variant.
type ArtifactMetric struct {
	Name    string
	Samples []float64       // flat, seconds
	Mean    float64         // flat-mean, ms
	Levels  []ArtifactLevel // per-level variants
}

// ArtifactLevel carries Samples (per-level) or Stats (per-level-stats).
type ArtifactLevel struct {
	Level   string
	Samples []float64
	Stats   ArtifactStats
}

// ArtifactStats is the reduced form of one level, in ms.
type ArtifactStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// BuildArtifact lays out accumulated entries and their statistics for variant.
// stats must be aligned with entries.
func BuildArtifact(variant Variant, entries []*Entry, stats []EntryStats) (*Artifact, error) {
	if len(entries) != len(stats) {
		return nil, fmt.Errorf("build artifact: %d entries but %d statistics", len(entries), len(stats))
	}
	a := &Artifact{Variant: variant}
	for i, e := range entries {
		if e.policy != variant.Policy() {
			return nil, fmt.Errorf("build artifact: variant %s needs %s accumulation, got %s", variant, variant.Policy(), e.policy)
		}
		cfg := ArtifactConfiguration{Key: e.Key()}
		for _, metric := range e.metrics {
			m := ArtifactMetric{Name: metric}
			switch variant {
			case VariantFlat:
				m.Samples = e.Samples(metric)
			case VariantFlatMean:
				m.Mean = stats[i].Overall[metric].Mean
			case VariantPerLevel:
				for _, level := range e.levels {
					m.Levels = append(m.Levels, ArtifactLevel{Level: level, Samples: e.LevelSamples(metric, level)})
				}
			case VariantPerLevelStats:
				for _, level := range e.levels {
					s := stats[i].PerLevel[metric][level]
					m.Levels = append(m.Levels, ArtifactLevel{Level: level, Stats: ArtifactStats{Mean: s.Mean, Std: s.StdDev}})
				}
			default:
				return nil, fmt.Errorf("build artifact: unknown variant %q", variant)
			}
			cfg.Metrics = append(cfg.Metrics, m)
		}
		a.Configurations = append(a.Configurations, cfg)
	}
	return a, nil
}

// Configuration finds the data of a configuration key.
func (a *Artifact) Configuration(key string) (ArtifactConfiguration, bool) {
	for _, c := range a.Configurations {
		if c.Key == key {
			return c, true
		}
	}
	return ArtifactConfiguration{}, false
}

// Keys lists configuration keys in artifact order.
func (a *Artifact) Keys() []string {
	keys := make([]string, 0, len(a.Configurations))
	for _, c := range a.Configurations {
		keys = append(keys, c.Key)
	}
	return keys
}

// MetricNames lists every metric in first-seen order.
func (a *Artifact) MetricNames() []string {
	var names []string
	for _, c := range a.Configurations {
		for _, m := range c.Metrics {
			if !slices.Contains(names, m.Name) {
				names = append(names, m.Name)
			}
		}
	}
	return names
}

// LevelNames lists every level in first-seen order. Flat variants have none.
func (a *Artifact) LevelNames() []string {
	var names []string
	for _, c := range a.Configurations {
		for _, m := range c.Metrics {
			for _, l := range m.Levels {
				if !slices.Contains(names, l.Level) {
					names = append(names, l.Level)
				}
			}
		}
	}
	return names
}

// Metric finds a metric by name.
func (c ArtifactConfiguration) Metric(name string) (ArtifactMetric, bool) {
	for _, m := range c.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return ArtifactMetric{}, false
}

// Level finds the data of one level.
func (m ArtifactMetric) Level(level string) (ArtifactLevel, bool) {
	for _, l := range m.Levels {
		if l.Level == level {
			return l, true
		}
	}
	return ArtifactLevel{}, false
}

// MeanMillis is the mean of the metric in ms for variant, across all levels.
func (m ArtifactMetric) MeanMillis(variant Variant) (float64, error) {
	switch variant {
	case VariantFlatMean:
		return m.Mean, nil
	case VariantFlat:
		s, err := Reduce(m.Samples)
		if err != nil {
			return 0, &EmptySampleError{Metric: m.Name}
		}
		return s.Mean, nil
	case VariantPerLevel:
		var all []float64
		for _, l := range m.Levels {
			all = append(all, l.Samples...)
		}
		s, err := Reduce(all)
		if err != nil {
			return 0, &EmptySampleError{Metric: m.Name}
		}
		return s.Mean, nil
	default:
		return 0, fmt.Errorf("metric %q: variant %s has no overall mean", m.Name, variant)
	}
}

// LevelMeanMillis is the mean of the metric in ms for one level.
func (m ArtifactMetric) LevelMeanMillis(variant Variant, level string) (float64, error) {
	l, ok := m.Level(level)
	if !ok {
		return 0, fmt.Errorf("metric %q has no level %q", m.Name, level)
	}
	switch variant {
	case VariantPerLevelStats:
		return l.Stats.Mean, nil
	case VariantPerLevel:
		s, err := Reduce(l.Samples)
		if err != nil {
			return 0, &EmptySampleError{Metric: m.Name, Level: level}
		}
		return s.Mean, nil
	default:
		return 0, fmt.Errorf("metric %q: variant %s has no per-level data", m.Name, variant)
	}
}

// MarshalJSON writes the artifact as nested objects in artifact order.
func (a *Artifact) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range a.Configurations {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, c.Key)
		buf.WriteByte('{')
		for j, m := range c.Metrics {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeKey(&buf, m.Name)
			if err := a.writeMetric(&buf, m); err != nil {
				return nil, fmt.Errorf("configuration %q metric %q: %w", c.Key, m.Name, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Artifact) writeMetric(buf *bytes.Buffer, m ArtifactMetric) error {
	switch a.Variant {
	case VariantFlat:
		return writeValue(buf, samplesOrEmpty(m.Samples))
	case VariantFlatMean:
		return writeValue(buf, m.Mean)
	case VariantPerLevel, VariantPerLevelStats:
		buf.WriteByte('{')
		for k, l := range m.Levels {
			if k > 0 {
				buf.WriteByte(',')
			}
			writeKey(buf, l.Level)
			var err error
			if a.Variant == VariantPerLevel {
				err = writeValue(buf, samplesOrEmpty(l.Samples))
			} else {
				err = writeValue(buf, l.Stats)
			}
			if err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unknown variant %q", a.Variant)
	}
}

func writeKey(buf *bytes.Buffer, key string) {
	data, _ := json.Marshal(key)
	buf.Write(data)
	buf.WriteByte(':')
}

func writeValue(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func samplesOrEmpty(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}

// UnmarshalJSON decodes any variant, inferring it from the shape of the
// metric values, and keeps the key order of the document.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	out := Artifact{}
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		cfg := ArtifactConfiguration{Key: key}
		err := decodeOrderedObject(raw, func(name string, raw json.RawMessage) error {
			m, variant, err := decodeMetric(name, raw)
			if err != nil {
				return err
			}
			switch {
			case variant == "":
			case out.Variant == "":
				out.Variant = variant
			case variant != out.Variant:
				return fmt.Errorf("metric %q is laid out as %s, earlier metrics as %s", name, variant, out.Variant)
			}
			cfg.Metrics = append(cfg.Metrics, m)
			return nil
		})
		if err != nil {
			return fmt.Errorf("configuration %q: %w", key, err)
		}
		out.Configurations = append(out.Configurations, cfg)
		return nil
	})
	if err != nil {
		return err
	}
	if out.Variant == "" && len(out.MetricNames()) > 0 {
		// Only empty level maps were seen.
		out.Variant = VariantPerLevel
	}
	*a = out
	return nil
}

func decodeMetric(name string, raw json.RawMessage) (ArtifactMetric, Variant, error) {
	m := ArtifactMetric{Name: name}
	switch firstByte(raw) {
	case '[':
		if err := json.Unmarshal(raw, &m.Samples); err != nil {
			return m, "", fmt.Errorf("metric %q: %w", name, err)
		}
		return m, VariantFlat, nil
	case '{':
		variant := Variant("")
		err := decodeOrderedObject(raw, func(level string, raw json.RawMessage) error {
			l := ArtifactLevel{Level: level}
			var got Variant
			switch firstByte(raw) {
			case '[':
				got = VariantPerLevel
				if err := json.Unmarshal(raw, &l.Samples); err != nil {
					return err
				}
			case '{':
				got = VariantPerLevelStats
				if err := json.Unmarshal(raw, &l.Stats); err != nil {
					return err
				}
			default:
				return fmt.Errorf("level %q: expected samples or statistics", level)
			}
			if variant == "" {
				variant = got
			} else if got != variant {
				return fmt.Errorf("level %q mixes samples and statistics", level)
			}
			m.Levels = append(m.Levels, l)
			return nil
		})
		if err != nil {
			return m, "", fmt.Errorf("metric %q: %w", name, err)
		}
		return m, variant, nil
	default:
		if err := json.Unmarshal(raw, &m.Mean); err != nil {
			return m, "", fmt.Errorf("metric %q: %w", name, err)
		}
		return m, VariantFlatMean, nil
	}
}

// decodeOrderedObject calls fn for every member of a JSON object, in document order.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// ReadArtifact loads a persisted artifact.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return &a, nil
}
