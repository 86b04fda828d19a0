package sweep

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.yaml.in/yaml/v3"
)

func TestFeatureConfigurationKeyPreservesOrder(t *testing.T) {
	a := FeatureConfiguration{"distance_func2", "branchless"}
	b := FeatureConfiguration{"branchless", "distance_func2"}
	if a.Key() != "distance_func2,branchless" {
		t.Fatalf("unexpected key %q", a.Key())
	}
	if a.Key() == b.Key() {
		t.Fatalf("expected flag order to be part of the key")
	}
	if got := (FeatureConfiguration{}).Key(); got != "" {
		t.Fatalf("baseline key = %q, want empty", got)
	}
	if got := (FeatureConfiguration{}).Label(); got != "(baseline)" {
		t.Fatalf("baseline label = %q", got)
	}
}

func TestParseFeatureConfiguration(t *testing.T) {
	cases := map[string]FeatureConfiguration{
		"":                           {},
		"   ":                        {},
		"spatial_hash":               {"spatial_hash"},
		"distance_func2, branchless": {"distance_func2", "branchless"},
		"a,,b":                       {"a", "", "b"},
	}
	for input, want := range cases {
		if diff := cmp.Diff(want, ParseFeatureConfiguration(input)); diff != "" {
			t.Fatalf("ParseFeatureConfiguration(%q) mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestFeatureConfigurationValidate(t *testing.T) {
	valid := []FeatureConfiguration{
		{},
		{"spatial_hash"},
		{"spatial_array", "branchless", "floatneighbors", "no_id_check"},
	}
	for _, fc := range valid {
		if err := fc.Validate(); err != nil {
			t.Fatalf("Validate(%v) error: %v", fc, err)
		}
	}
	invalid := []FeatureConfiguration{
		{""},
		{"a", " "},
		{"a,b"},
		{"has space"},
		{"dup", "dup"},
	}
	for _, fc := range invalid {
		if err := fc.Validate(); err == nil {
			t.Fatalf("expected Validate(%q) to fail", []string(fc))
		}
	}
}

func TestFeatureConfigurationNormalize(t *testing.T) {
	got := FeatureConfiguration{" spatial_array ", "branchless,floatneighbors"}.Normalize()
	want := FeatureConfiguration{"spatial_array", "branchless", "floatneighbors"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestFeatureConfigurationJSON(t *testing.T) {
	var groups []Group
	input := `[{"name":"spatial","configurations":[["spatial_array","branchless"],"spatial_hash",[],""]}]`
	if err := json.Unmarshal([]byte(input), &groups); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []FeatureConfiguration{{"spatial_array", "branchless"}, {"spatial_hash"}, {}, {}}
	if diff := cmp.Diff(want, groups[0].Configurations); diff != "" {
		t.Fatalf("configurations mismatch (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(FeatureConfiguration(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("baseline marshals as %s, want []", data)
	}

	var bad FeatureConfiguration
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Fatalf("expected error for numeric configuration")
	}
}

func TestFeatureConfigurationYAML(t *testing.T) {
	input := `
name: optimize
configurations:
  - [distance_func2, branchless]
  - spatial_hash
  - []
`
	var g Group
	if err := yaml.Unmarshal([]byte(input), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []FeatureConfiguration{{"distance_func2", "branchless"}, {"spatial_hash"}, {}}
	if diff := cmp.Diff(want, g.Configurations); diff != "" {
		t.Fatalf("configurations mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupsLookup(t *testing.T) {
	groups := Groups{
		{Name: "spatial", Configurations: []FeatureConfiguration{{"spatial_hash"}}},
		{Name: "test"},
	}
	if _, ok := groups.Lookup("spatial"); !ok {
		t.Fatalf("expected spatial group")
	}
	if _, ok := groups.Lookup("missing"); ok {
		t.Fatalf("unexpected group")
	}
	if diff := cmp.Diff([]string{"spatial", "test"}, groups.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
