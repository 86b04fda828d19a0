// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/mwiater/sweep/internal/sweep"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// yamlConfigPath is tried when DefaultConfigPath does not exist.
	yamlConfigPath = "config/config.yaml"
	// defaultLogFile is used when the config omits logFile.
	defaultLogFile = "sweep.log"
	// defaultOutputDir is where artifacts land when the config omits outputDir.
	defaultOutputDir = "."
)

// Config represents the top-level application configuration.
type Config struct {
	Command                []string     `json:"command,omitempty" yaml:"command,omitempty" mapstructure:"command"`
	FeaturesFlag           string       `json:"featuresFlag,omitempty" yaml:"featuresFlag,omitempty" mapstructure:"featuresFlag"`
	LevelFlag              string       `json:"levelFlag,omitempty" yaml:"levelFlag,omitempty" mapstructure:"levelFlag"`
	ModeToken              string       `json:"modeToken,omitempty" yaml:"modeToken,omitempty" mapstructure:"modeToken"`
	ReplaceDefaultFeatures bool         `json:"replaceDefaultFeatures" yaml:"replaceDefaultFeatures" mapstructure:"replaceDefaultFeatures"`
	WorkDir                string       `json:"workDir,omitempty" yaml:"workDir,omitempty" mapstructure:"workDir"`
	ResultFile             string       `json:"resultFile,omitempty" yaml:"resultFile,omitempty" mapstructure:"resultFile"`
	OutputDir              string       `json:"outputDir,omitempty" yaml:"outputDir,omitempty" mapstructure:"outputDir"`
	Variant                string       `json:"variant,omitempty" yaml:"variant,omitempty" mapstructure:"variant"`
	Levels                 []string     `json:"levels,omitempty" yaml:"levels,omitempty" mapstructure:"levels"`
	Groups                 sweep.Groups `json:"groups,omitempty" yaml:"groups,omitempty" mapstructure:"groups"`
	DefaultGroup           string       `json:"defaultGroup,omitempty" yaml:"defaultGroup,omitempty" mapstructure:"defaultGroup"`
	ExpectedMetrics        []string     `json:"expectedMetrics,omitempty" yaml:"expectedMetrics,omitempty" mapstructure:"expectedMetrics"`
	MetricsFile            string       `json:"metricsFile,omitempty" yaml:"metricsFile,omitempty" mapstructure:"metricsFile"`
	LogFile                string       `json:"logFile,omitempty" yaml:"logFile,omitempty" mapstructure:"logFile"`
	Debug                  bool         `json:"debug" yaml:"debug" mapstructure:"debug"`
	ConfigPath             string       `json:"-" yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills every unset field with its built-in value. Levels and
// groups are replaced as a whole, never merged.
func (c *Config) ApplyDefaults() {
	if len(c.Command) == 0 {
		c.Command = slices.Clone(sweep.DefaultCommand)
	}
	if strings.TrimSpace(c.FeaturesFlag) == "" {
		c.FeaturesFlag = sweep.DefaultFeaturesFlag
	}
	if strings.TrimSpace(c.LevelFlag) == "" {
		c.LevelFlag = sweep.DefaultLevelFlag
	}
	if strings.TrimSpace(c.ModeToken) == "" {
		c.ModeToken = sweep.DefaultModeToken
	}
	if strings.TrimSpace(c.ResultFile) == "" {
		c.ResultFile = sweep.DefaultResultFile
	}
	if len(c.Levels) == 0 {
		c.Levels = DefaultLevels()
	}
	if len(c.Groups) == 0 {
		c.Groups = DefaultGroups()
	}
}

// Normalize trims names and splits comma-joined feature flags so that
// "a,b" and ["a","b"] describe the same configuration.
func (c *Config) Normalize() {
	for i := range c.Levels {
		c.Levels[i] = strings.TrimSpace(c.Levels[i])
	}
	for i := range c.Groups {
		c.Groups[i].Name = strings.TrimSpace(c.Groups[i].Name)
		for j, cfg := range c.Groups[i].Configurations {
			c.Groups[i].Configurations[j] = cfg.Normalize()
		}
	}
	c.Variant = strings.ToLower(strings.TrimSpace(c.Variant))
	c.DefaultGroup = strings.TrimSpace(c.DefaultGroup)
}

// CommandSpec describes how the benchmark binary is invoked.
func (c Config) CommandSpec() sweep.CommandSpec {
	return sweep.CommandSpec{
		Command:                slices.Clone(c.Command),
		FeaturesFlag:           c.FeaturesFlag,
		LevelFlag:              c.LevelFlag,
		ModeToken:              c.ModeToken,
		ReplaceDefaultFeatures: c.ReplaceDefaultFeatures,
		WorkDir:                c.WorkDir,
		ResultFile:             c.ResultFile,
	}
}

// ResultPath returns where the benchmark binary leaves its result file.
func (c Config) ResultPath() string {
	return c.CommandSpec().ResultPath()
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// OutputPath returns the artifact directory, applying a default if not set.
func (c Config) OutputPath() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// SweepVariant parses the configured artifact layout.
func (c Config) SweepVariant() (sweep.Variant, error) {
	return sweep.ParseVariant(c.Variant)
}

// DefaultGroupName is the group swept when none is named on the command line:
// the configured defaultGroup, else the built-in empty "test" group. A group
// table without "test" still resolves to it; see HasGroup.
func (c Config) DefaultGroupName() string {
	if c.DefaultGroup != "" {
		return c.DefaultGroup
	}
	return DefaultGroup
}

// HasGroup reports whether the group table defines name.
func (c Config) HasGroup(name string) bool {
	_, ok := c.Groups.Lookup(name)
	return ok
}

// ArtifactPath is where the artifact of group is written.
func (c Config) ArtifactPath(group string) string {
	return filepath.Join(c.OutputPath(), sweep.ArtifactName(group))
}

// Locate resolves the config file for path. The default path falls back to
// config/config.yaml when only that exists. ok is false when no file exists.
func Locate(path string) (resolved string, ok bool) {
	if path == "" {
		path = DefaultConfigPath
	}
	if fileExists(path) {
		return path, true
	}
	if path == DefaultConfigPath && fileExists(yamlConfigPath) {
		return yamlConfigPath, true
	}
	return path, false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the application configuration from the specified path. JSON and
// YAML files are accepted; the format follows the file extension.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	resolved, ok := Locate(path)
	if !ok {
		if path == DefaultConfigPath {
			return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, yamlConfigPath)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}
	path = resolved

	config, err := loadFromPath(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	config.ApplyDefaults()
	config.Normalize()
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that decodes the configuration at path.
func loadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}
