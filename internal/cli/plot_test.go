package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlotCommand(t *testing.T) {
	dir := t.TempDir()
	useConfig(t, sweepConfig(dir))
	stubRunners(t, "")
	if _, err := execute(t, "run", "spatial"); err != nil {
		t.Fatalf("run error: %v", err)
	}

	chartDir := filepath.Join(dir, "charts")
	out, err := execute(t, "plot", "spatial", "--format", "html", "--output", chartDir)
	if err != nil {
		t.Fatalf("plot html error: %v", err)
	}
	if !strings.Contains(out, "Chart written to "+filepath.Join(chartDir, "spatial-charts.html")) {
		t.Fatalf("unexpected plot output:\n%s", out)
	}

	plotOpts = plotOptions{format: "png"}
	if _, err := execute(t, "plot", "spatial", "--output", chartDir); err != nil {
		t.Fatalf("plot png error: %v", err)
	}
	for _, name := range []string{"spatial-avoidance.png", "spatial-spatial_reset.png"} {
		if _, err := os.Stat(filepath.Join(chartDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestPlotCommandErrors(t *testing.T) {
	dir := t.TempDir()
	useConfig(t, sweepConfig(dir))

	if _, err := execute(t, "plot", "spatial"); err == nil {
		t.Fatalf("expected error when no artifact exists")
	}

	artifact := filepath.Join(dir, "artifact.json")
	if err := os.WriteFile(artifact, []byte(`{"a":{"m":1.5}}`), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	plotOpts = plotOptions{format: "png"}
	if _, err := execute(t, "plot", "spatial", "--input", artifact, "--format", "svg"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
