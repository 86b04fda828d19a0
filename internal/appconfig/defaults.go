package appconfig

import "github.com/mwiater/sweep/internal/sweep"

// DefaultGroup is the built-in group swept when none is named. It is empty,
// so a bare `sweep run` does nothing.
const DefaultGroup = "test"

// DefaultLevels returns the built-in level list in sweep order.
func DefaultLevels() []string {
	return []string{"1-Empty", "2-Labyrinth", "3-Cathedral", "4-Centipedetown"}
}

// DefaultGroups returns the built-in experiment groups.
func DefaultGroups() sweep.Groups {
	return sweep.Groups{
		{
			Name: "spatial",
			Configurations: []sweep.FeatureConfiguration{
				{"spatial_array", "branchless", "floatneighbors", "no_id_check"},
				{"spatial_hash"},
				{"spatial_kdtree"},
				{"spatial_kdbush"},
				{"spatial_rstar"},
			},
		},
		{
			Name: "optimize",
			Configurations: []sweep.FeatureConfiguration{
				{"distance_func2", "branchless", "floatneighbors", "no_id_check"},
			},
		},
		{Name: DefaultGroup},
	}
}

// Default returns a configuration made only of built-in values.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}
