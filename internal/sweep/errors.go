// internal/sweep/errors.go
package sweep

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching. Every typed error below reports one of them.
var (
	ErrExecution      = errors.New("benchmark execution failed")
	ErrResultParse    = errors.New("result file could not be parsed")
	ErrSchemaMismatch = errors.New("metric set mismatch")
	ErrEmptySample    = errors.New("no samples")
	ErrUnknownGroup   = errors.New("unknown experiment group")
)

// ExecutionError reports a benchmark process that failed to start or exited non-zero.
type ExecutionError struct {
	Args     []string
	ExitCode int
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("command %q exited with status %d: %v", strings.Join(e.Args, " "), e.ExitCode, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }

// ResultParseError reports a result file that is missing, empty or malformed.
type ResultParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ResultParseError) Error() string {
	msg := fmt.Sprintf("result file %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResultParseError) Unwrap() error { return e.Err }

func (e *ResultParseError) Is(target error) bool { return target == ErrResultParse }

// SchemaMismatchError reports a run whose metric names differ from the
// set already established for its configuration.
type SchemaMismatchError struct {
	Configuration string
	Level         string
	Expected      []string
	Got           []string
}

func (e *SchemaMismatchError) Error() string {
	missing, unexpected := diffNames(e.Expected, e.Got)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(unexpected, ", "))
	}
	return fmt.Sprintf("configuration %q level %q: metric set changed (%s)", e.Configuration, e.Level, strings.Join(parts, "; "))
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

// EmptySampleError reports a metric that has nothing to reduce. Level is
// empty when the metric was reduced across all levels.
type EmptySampleError struct {
	Configuration string
	Metric        string
	Level         string
}

func (e *EmptySampleError) Error() string {
	var b strings.Builder
	b.WriteString("no samples to reduce")
	if e.Configuration != "" {
		fmt.Fprintf(&b, " for configuration %q", e.Configuration)
	}
	if e.Metric != "" {
		fmt.Fprintf(&b, " metric %q", e.Metric)
	}
	if e.Level != "" {
		fmt.Fprintf(&b, " level %q", e.Level)
	}
	return b.String()
}

func (e *EmptySampleError) Is(target error) bool { return target == ErrEmptySample }

// UnknownGroupError reports a group name missing from the group table.
type UnknownGroupError struct {
	Name  string
	Known []string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown experiment group %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownGroupError) Is(target error) bool { return target == ErrUnknownGroup }

// SweepError wraps a fatal error with the run that was in progress.
type SweepError struct {
	Group         string
	Configuration string
	Level         string
	Err           error
}

func (e *SweepError) Error() string {
	config := e.Configuration
	if config == "" {
		config = "(baseline)"
	}
	if e.Level == "" {
		return fmt.Sprintf("sweep %q aborted at configuration %s: %v", e.Group, config, e.Err)
	}
	return fmt.Sprintf("sweep %q aborted at configuration %s, level %s: %v", e.Group, config, e.Level, e.Err)
}

func (e *SweepError) Unwrap() error { return e.Err }

// diffNames returns the names of want absent from got, and the names of got absent from want.
func diffNames(want, got []string) (missing, unexpected []string) {
	seen := make(map[string]bool, len(got))
	for _, name := range got {
		seen[name] = true
	}
	for _, name := range want {
		if !seen[name] {
			missing = append(missing, name)
		}
		delete(seen, name)
	}
	for _, name := range got {
		if seen[name] {
			unexpected = append(unexpected, name)
		}
	}
	return missing, unexpected
}
