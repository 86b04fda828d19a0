// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mwiater/sweep/internal/sweep"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoad verifies that a JSON config is merged with the built-in defaults,
// and that invalid JSON, schema violations and missing files are rejected.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	valid := writeConfig(t, dir, "config.json", `{
        "workDir": "sim",
        "variant": "Per-Level-Stats",
        "groups": [
            {"name": "spatial", "configurations": [["spatial_hash"], "distance_func2, branchless", []]}
        ]
    }`)

	cfg, err := Load(valid)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.ConfigPath != valid {
		t.Fatalf("expected config path %s, got %s", valid, cfg.ConfigPath)
	}
	if diff := cmp.Diff(DefaultLevels(), cfg.Levels); diff != "" {
		t.Fatalf("levels mismatch (-want +got):\n%s", diff)
	}
	want := []sweep.FeatureConfiguration{{"spatial_hash"}, {"distance_func2", "branchless"}, {}}
	if diff := cmp.Diff(want, cfg.Groups[0].Configurations); diff != "" {
		t.Fatalf("configurations mismatch (-want +got):\n%s", diff)
	}
	if cfg.Variant != "per-level-stats" {
		t.Fatalf("expected normalized variant, got %q", cfg.Variant)
	}
	if cfg.ResultPath() != filepath.Join("sim", "statistics.json") {
		t.Fatalf("unexpected result path %q", cfg.ResultPath())
	}
	if cfg.LogFilePath() != "sweep.log" {
		t.Fatalf("expected default log file, got %q", cfg.LogFilePath())
	}
	if cfg.DefaultGroupName() != DefaultGroup || cfg.HasGroup(DefaultGroup) {
		t.Fatalf("expected the built-in default group outside the table, got %q", cfg.DefaultGroupName())
	}

	invalid := map[string]string{
		"truncated":        `{ "groups": [`,
		"unknown variant":  `{"variant": "histogram"}`,
		"duplicate group":  `{"groups": [{"name": "a"}, {"name": "a"}]}`,
		"duplicate config": `{"groups": [{"name": "a", "configurations": ["x", ["x"]]}]}`,
		"bad flag":         `{"groups": [{"name": "a", "configurations": [["has space"]]}]}`,
		"unsafe name":      `{"groups": [{"name": "../etc"}]}`,
		"duplicate level":  `{"levels": ["L1", "L1"]}`,
		"missing default":  `{"defaultGroup": "nope"}`,
	}
	for name, content := range invalid {
		path := writeConfig(t, t.TempDir(), "config.json", content)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: Load() should have failed", name)
		}
	}

	if _, err := Load("nonexistent.json"); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
command: [./target/release/sim]
replaceDefaultFeatures: true
levels: [L1, L2]
defaultGroup: optimize
groups:
  - name: optimize
    configurations:
      - [distance_func2, branchless]
      - spatial_hash
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	spec := cfg.CommandSpec()
	got := spec.Args(sweep.Invocation{Configuration: cfg.Groups[0].Configurations[0], Level: "L2"})
	wantArgs := []string{"./target/release/sim", "--no-default-features", "--features", "distance_func2,branchless", "--", "--level", "L2", "bench"}
	if diff := cmp.Diff(wantArgs, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if cfg.DefaultGroupName() != "optimize" {
		t.Fatalf("expected configured default group, got %q", cfg.DefaultGroupName())
	}
}

func TestLoadDefaultPathFallsBackToYAML(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config/config.yaml", "outputDir: results\n")

	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.OutputPath() != "results" || cfg.ConfigPath != yamlConfigPath {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ArtifactPath("spatial") != filepath.Join("results", "statistics-spatial.json") {
		t.Fatalf("unexpected artifact path %q", cfg.ArtifactPath("spatial"))
	}
}

func TestLocate(t *testing.T) {
	tempDir := t.TempDir()
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	if _, ok := Locate(""); ok {
		t.Fatalf("expected no config file in an empty directory")
	}
	writeConfig(t, tempDir, yamlConfigPath, "debug: true\n")
	if got, ok := Locate(DefaultConfigPath); !ok || got != yamlConfigPath {
		t.Fatalf("expected YAML fallback, got %q (found=%v)", got, ok)
	}
	writeConfig(t, tempDir, DefaultConfigPath, "{}")
	if got, ok := Locate(""); !ok || got != DefaultConfigPath {
		t.Fatalf("expected JSON config to win, got %q (found=%v)", got, ok)
	}
	if _, ok := Locate("other.json"); ok {
		t.Fatalf("only the default path falls back")
	}
}

func TestLoadMissingFileError(t *testing.T) {
	tempDir := t.TempDir()
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	_, err = Load("")
	if err == nil || !strings.Contains(err.Error(), "no configuration file found") {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("built-in defaults must validate: %v", err)
	}
	if diff := cmp.Diff([]string{"spatial", "optimize", "test"}, cfg.Groups.Names()); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	spatial, _ := cfg.Groups.Lookup("spatial")
	if len(spatial.Configurations) != 5 {
		t.Fatalf("expected 5 spatial configurations, got %d", len(spatial.Configurations))
	}
	if cfg.DefaultGroupName() != DefaultGroup {
		t.Fatalf("expected %q as default group, got %q", DefaultGroup, cfg.DefaultGroupName())
	}
	if cfg.OutputPath() != "." {
		t.Fatalf("expected current directory as output, got %q", cfg.OutputPath())
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Debug = true
	ShowConfig(&buf, "config/config.json", &cfg, Config{})
	out := buf.String()
	for _, want := range []string{
		"Config file: config/config.json",
		"Debug:           true",
		"Command:         cargo run --release",
		"Variant:         per-level",
		"Levels:          1-Empty, 2-Labyrinth, 3-Cathedral, 4-Centipedetown",
		"spatial (5 configurations)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %s", want, out)
		}
	}

	buf.Reset()
	ShowConfig(&buf, "", nil, Config{Variant: "bogus"})
	if !strings.Contains(buf.String(), "No config file loaded") || !strings.Contains(buf.String(), "bogus (invalid)") {
		t.Fatalf("unexpected fallback output: %s", buf.String())
	}
}

func TestShowConfigRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := ShowConfigRaw(&buf, Default()); err != nil {
		t.Fatalf("ShowConfigRaw error: %v", err)
	}
	if !strings.Contains(buf.String(), "spatial_kdbush") {
		t.Fatalf("expected group contents in raw dump, got %s", buf.String())
	}
}
