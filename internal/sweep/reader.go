// internal/sweep/reader.go
package sweep

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the exchange format of the benchmark binary: metric -> seconds.
const resultSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "array",
    "items": {"type": "number"}
  }
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

// MetricSampleSet holds the samples one benchmark run produced, in seconds.
type MetricSampleSet struct {
	names   []string
	samples map[string][]float64
}

// NewMetricSampleSet copies samples into a set with a sorted name list.
func NewMetricSampleSet(samples map[string][]float64) MetricSampleSet {
	set := MetricSampleSet{samples: make(map[string][]float64, len(samples))}
	for name, values := range samples {
		set.names = append(set.names, name)
		set.samples[name] = append([]float64{}, values...)
	}
	slices.Sort(set.names)
	return set
}

// Names returns the metric names in sorted order.
func (s MetricSampleSet) Names() []string {
	return append([]string{}, s.names...)
}

// Samples returns the samples recorded for name, in recording order.
func (s MetricSampleSet) Samples(name string) []float64 {
	return s.samples[name]
}

// Len is the total number of samples across all metrics.
func (s MetricSampleSet) Len() int {
	n := 0
	for _, values := range s.samples {
		n += len(values)
	}
	return n
}

// ReadResultFile reads and parses the result file the benchmark binary wrote.
func ReadResultFile(path string) (MetricSampleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return MetricSampleSet{}, &ResultParseError{Path: path, Reason: "file not found", Err: err}
		}
		return MetricSampleSet{}, &ResultParseError{Path: path, Reason: "read failed", Err: err}
	}
	return ParseResult(path, data)
}

// ParseResult validates data against the result schema and decodes it.
// path is only used in error messages.
func ParseResult(path string, data []byte) (MetricSampleSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return MetricSampleSet{}, &ResultParseError{Path: path, Reason: "file is empty"}
	}
	if !json.Valid(data) {
		return MetricSampleSet{}, &ResultParseError{Path: path, Reason: "not valid JSON"}
	}

	result, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return MetricSampleSet{}, &ResultParseError{Path: path, Reason: "schema validation failed", Err: err}
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return MetricSampleSet{}, &ResultParseError{Path: path, Reason: "unexpected layout: " + strings.Join(msgs, "; ")}
	}

	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return MetricSampleSet{}, &ResultParseError{Path: path, Reason: "decode failed", Err: err}
	}
	return NewMetricSampleSet(raw), nil
}

// CheckMetricNames returns a SchemaMismatchError when set does not carry exactly
// the expected names. An empty expectation accepts any set.
func CheckMetricNames(expected []string, set MetricSampleSet, inv Invocation) error {
	if len(expected) == 0 {
		return nil
	}
	want := append([]string{}, expected...)
	slices.Sort(want)
	if slices.Equal(want, set.Names()) {
		return nil
	}
	return &SchemaMismatchError{
		Configuration: inv.Configuration.Key(),
		Level:         inv.Level,
		Expected:      want,
		Got:           set.Names(),
	}
}
