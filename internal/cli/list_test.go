package cli

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestListCommand(t *testing.T) {
	useConfig(t, sweepConfig(t.TempDir()))

	out, err := execute(t, "list", "--levels")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	for _, want := range []string{
		"spatial: 2 configurations",
		"  spatial_hash,branchless",
		"test (default): 0 configurations",
		"Levels: L1, L2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestListCommandBuiltInGroups(t *testing.T) {
	useConfig(t, map[string]any{"logFile": filepath.Join(t.TempDir(), "sweep.log")})

	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if !strings.Contains(out, "spatial_array,branchless,floatneighbors,no_id_check") {
		t.Fatalf("expected built-in spatial group, got:\n%s", out)
	}
	if strings.Contains(out, "Levels:") {
		t.Fatalf("levels should only be listed on request")
	}
}

func TestListCommandsCommand(t *testing.T) {
	useConfig(t, map[string]any{"logFile": filepath.Join(t.TempDir(), "sweep.log")})

	out, err := execute(t, "list", "commands")
	if err != nil {
		t.Fatalf("list commands error: %v", err)
	}
	for _, want := range []string{"Commands and Subcommands:", "sweep run", "Run a benchmark sweep over one experiment group", "sweep show config"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}
