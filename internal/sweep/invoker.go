// internal/sweep/invoker.go
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	// DefaultFeaturesFlag selects the feature set of the benchmark build.
	DefaultFeaturesFlag = "--features"
	// DefaultLevelFlag selects the scenario the benchmark runs.
	DefaultLevelFlag = "--level"
	// DefaultModeToken puts the benchmark binary into benchmark mode.
	DefaultModeToken = "bench"
	// DefaultResultFile is where the benchmark binary writes its samples.
	DefaultResultFile = "statistics.json"
	// NoDefaultFeaturesFlag replaces the build's default feature set.
	NoDefaultFeaturesFlag = "--no-default-features"
	// argumentSeparator ends the build tool's own arguments.
	argumentSeparator = "--"
)

// DefaultCommand builds and runs the benchmark binary in release mode.
var DefaultCommand = []string{"cargo", "run", "--release"}

// Invocation is one (configuration, level) pair of a sweep.
type Invocation struct {
	Configuration FeatureConfiguration
	Level         string
}

// Runner executes one benchmark invocation and blocks until it finishes.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// CommandSpec describes how an invocation maps onto the benchmark command line.
type CommandSpec struct {
	Command                []string
	FeaturesFlag           string
	LevelFlag              string
	ModeToken              string
	ReplaceDefaultFeatures bool
	WorkDir                string
	ResultFile             string
}

// Args returns the full argv for inv, command name first:
//
//	<command...> [--no-default-features] --features <key> -- --level <level> bench
func (s CommandSpec) Args(inv Invocation) []string {
	command := s.Command
	if len(command) == 0 {
		command = DefaultCommand
	}
	args := append([]string{}, command...)
	if s.ReplaceDefaultFeatures {
		args = append(args, NoDefaultFeaturesFlag)
	}
	args = append(args,
		valueOr(s.FeaturesFlag, DefaultFeaturesFlag), inv.Configuration.Key(),
		argumentSeparator,
		valueOr(s.LevelFlag, DefaultLevelFlag), inv.Level,
		valueOr(s.ModeToken, DefaultModeToken),
	)
	return args
}

// ResultPath resolves the result file against the working directory.
func (s CommandSpec) ResultPath() string {
	name := valueOr(s.ResultFile, DefaultResultFile)
	if filepath.IsAbs(name) || s.WorkDir == "" {
		return name
	}
	return filepath.Join(s.WorkDir, name)
}

// CommandRunner runs the benchmark binary as a child process.
type CommandRunner struct {
	Spec   CommandSpec
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommandRunner returns a runner that forwards the child's output to stdout and stderr.
func NewCommandRunner(spec CommandSpec, stdout, stderr io.Writer) *CommandRunner {
	return &CommandRunner{Spec: spec, Stdout: stdout, Stderr: stderr}
}

// Run removes any stale result file, then runs the child and waits for it.
func (r *CommandRunner) Run(ctx context.Context, inv Invocation) error {
	args := r.Spec.Args(inv)

	if err := os.Remove(r.Spec.ResultPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale result file: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.Spec.WorkDir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return &ExecutionError{Args: args, ExitCode: exitStatus(err), Err: err}
	}
	return nil
}

func exitStatus(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 127
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
