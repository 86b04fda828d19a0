// internal/sweep/feature.go
package sweep

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// FeatureSeparator joins the flags of a configuration into its key.
const FeatureSeparator = ","

// FeatureConfiguration is an ordered set of feature flags that selects a
// build variant of the benchmark binary. An empty configuration is the baseline.
type FeatureConfiguration []string

// ParseFeatureConfiguration splits a comma-joined flag list. Surrounding
// whitespace is trimmed; a blank string yields the baseline.
func ParseFeatureConfiguration(s string) FeatureConfiguration {
	if strings.TrimSpace(s) == "" {
		return FeatureConfiguration{}
	}
	parts := strings.Split(s, FeatureSeparator)
	fc := make(FeatureConfiguration, 0, len(parts))
	for _, p := range parts {
		fc = append(fc, strings.TrimSpace(p))
	}
	return fc
}

// Key returns the identity of the configuration: its flags joined in authored order.
func (f FeatureConfiguration) Key() string {
	return strings.Join(f, FeatureSeparator)
}

// Label is the key, or "(baseline)" for the empty configuration.
func (f FeatureConfiguration) Label() string {
	if len(f) == 0 {
		return "(baseline)"
	}
	return f.Key()
}

// Validate checks that every flag is non-empty, separator-free and unique.
func (f FeatureConfiguration) Validate() error {
	seen := make(map[string]struct{}, len(f))
	for i, flag := range f {
		if strings.TrimSpace(flag) == "" {
			return fmt.Errorf("flag %d is empty", i)
		}
		if strings.Contains(flag, FeatureSeparator) || strings.ContainsAny(flag, " \t\n") {
			return fmt.Errorf("flag %q must not contain %q or whitespace", flag, FeatureSeparator)
		}
		if _, dup := seen[flag]; dup {
			return fmt.Errorf("flag %q is repeated", flag)
		}
		seen[flag] = struct{}{}
	}
	return nil
}

// Normalize expands flags that still hold comma-joined lists and trims the rest.
func (f FeatureConfiguration) Normalize() FeatureConfiguration {
	out := make(FeatureConfiguration, 0, len(f))
	for _, flag := range f {
		if strings.Contains(flag, FeatureSeparator) {
			out = append(out, ParseFeatureConfiguration(flag)...)
			continue
		}
		out = append(out, strings.TrimSpace(flag))
	}
	return out
}

// MarshalJSON always emits an array, including for the baseline.
func (f FeatureConfiguration) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(f))
}

// UnmarshalJSON accepts either an array of flags or a comma-joined string.
func (f *FeatureConfiguration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = ParseFeatureConfiguration(s)
		return nil
	}
	var flags []string
	if err := json.Unmarshal(data, &flags); err != nil {
		return fmt.Errorf("feature configuration must be a string or an array of strings: %w", err)
	}
	if flags == nil {
		flags = []string{}
	}
	*f = FeatureConfiguration(flags)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML config files.
func (f *FeatureConfiguration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*f = ParseFeatureConfiguration(value.Value)
		return nil
	}
	var flags []string
	if err := value.Decode(&flags); err != nil {
		return fmt.Errorf("feature configuration must be a string or a list of strings: %w", err)
	}
	if flags == nil {
		flags = []string{}
	}
	*f = FeatureConfiguration(flags)
	return nil
}

// Group is a named, ordered list of configurations swept together.
type Group struct {
	Name           string                 `json:"name" yaml:"name" mapstructure:"name"`
	Configurations []FeatureConfiguration `json:"configurations" yaml:"configurations" mapstructure:"configurations"`
}

// Groups is the experiment-group table. Order is the order groups are listed in.
type Groups []Group

// Lookup finds a group by name.
func (g Groups) Lookup(name string) (Group, bool) {
	for _, group := range g {
		if group.Name == name {
			return group, true
		}
	}
	return Group{}, false
}

// Names lists group names in table order.
func (g Groups) Names() []string {
	names := make([]string, 0, len(g))
	for _, group := range g {
		names = append(names, group.Name)
	}
	return names
}
