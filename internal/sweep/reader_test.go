package sweep

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeResult(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultResultFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write result: %v", err)
	}
	return path
}

func TestReadResultFile(t *testing.T) {
	path := writeResult(t, t.TempDir(), `{"spatial_reset":[0.001,0.002],"avoidance":[0.5],"spatial_insert":[]}`)
	set, err := ReadResultFile(path)
	if err != nil {
		t.Fatalf("ReadResultFile error: %v", err)
	}
	if diff := cmp.Diff([]string{"avoidance", "spatial_insert", "spatial_reset"}, set.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.001, 0.002}, set.Samples("spatial_reset")); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}
	if set.Len() != 3 {
		t.Fatalf("Len = %d, want 3", set.Len())
	}
}

func TestReadResultFileErrors(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"whitespace":       "  \n",
		"truncated":        `{"flocking":[0.1,`,
		"not an object":    `[0.1, 0.2]`,
		"no metrics":       `{}`,
		"string samples":   `{"flocking":["fast"]}`,
		"scalar metric":    `{"flocking":0.1}`,
		"nested level map": `{"flocking":{"1-Empty":[0.1]}}`,
	}
	for name, content := range cases {
		path := writeResult(t, t.TempDir(), content)
		_, err := ReadResultFile(path)
		if !errors.Is(err, ErrResultParse) {
			t.Fatalf("%s: expected ErrResultParse, got %v", name, err)
		}
		var parseErr *ResultParseError
		if !errors.As(err, &parseErr) || parseErr.Path != path {
			t.Fatalf("%s: expected *ResultParseError for %s, got %v", name, path, err)
		}
	}
}

func TestReadResultFileMissing(t *testing.T) {
	_, err := ReadResultFile(filepath.Join(t.TempDir(), "statistics.json"))
	if !errors.Is(err, ErrResultParse) {
		t.Fatalf("expected ErrResultParse, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestNewMetricSampleSetCopies(t *testing.T) {
	raw := map[string][]float64{"movement": {1, 2}}
	set := NewMetricSampleSet(raw)
	raw["movement"][0] = 99
	if set.Samples("movement")[0] != 1 {
		t.Fatalf("expected samples to be copied")
	}
}

func TestCheckMetricNames(t *testing.T) {
	set := NewMetricSampleSet(map[string][]float64{"spatial_reset": {1}, "avoidance": {1}})
	inv := Invocation{Configuration: FeatureConfiguration{"spatial_hash"}, Level: "1-Empty"}

	if err := CheckMetricNames(nil, set, inv); err != nil {
		t.Fatalf("empty expectation should accept, got %v", err)
	}
	if err := CheckMetricNames([]string{"spatial_reset", "avoidance"}, set, inv); err != nil {
		t.Fatalf("matching expectation should accept, got %v", err)
	}

	err := CheckMetricNames([]string{"spatial_reset", "spatial_insert", "avoidance"}, set, inv)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) || mismatch.Configuration != "spatial_hash" || mismatch.Level != "1-Empty" {
		t.Fatalf("unexpected mismatch detail: %#v", err)
	}
}
