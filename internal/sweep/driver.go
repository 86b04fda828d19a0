// internal/sweep/driver.go
package sweep

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mwiater/sweep/internal/logging"
)

var newSweepID = uuid.NewString

// EventKind tells an observer which point of a sweep was reached.
type EventKind int

const (
	// EventRunStarted fires before the runner is called.
	EventRunStarted EventKind = iota
	// EventRunFinished fires after a run's samples were merged.
	EventRunFinished
)

// Event describes progress of a sweep. Index is 1-based; Total is the number
// of runs in the sweep.
type Event struct {
	Kind       EventKind
	SweepID    string
	Group      string
	Invocation Invocation
	Index      int
	Total      int
	Samples    int
}

// Report is the outcome of a completed sweep.
type Report struct {
	SweepID  string
	Group    string
	Variant  Variant
	Levels   []string
	Runs     int
	Path     string
	Stats    []EntryStats
	Artifact *Artifact
}

// Driver runs experiment groups. Groups and Levels are read-only for the
// lifetime of a sweep; runs happen strictly one after another.
type Driver struct {
	Groups          Groups
	Levels          []string
	Runner          Runner
	ResultPath      string
	Variant         Variant
	ExpectedMetrics []string
	Writer          ArtifactWriter
	Observe         func(Event)
}

// Plan returns the invocations of a group: configurations outer, levels inner.
func (d *Driver) Plan(group string) ([]Invocation, error) {
	g, ok := d.Groups.Lookup(group)
	if !ok {
		return nil, &UnknownGroupError{Name: group, Known: d.Groups.Names()}
	}
	plan := make([]Invocation, 0, len(g.Configurations)*len(d.Levels))
	for _, cfg := range g.Configurations {
		for _, level := range d.Levels {
			plan = append(plan, Invocation{Configuration: cfg, Level: level})
		}
	}
	return plan, nil
}

// Run sweeps group and persists its artifact. A group without configurations
// is a no-op that returns a nil report. On any error nothing is persisted.
func (d *Driver) Run(ctx context.Context, group string) (*Report, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	variant, err := ParseVariant(string(d.Variant))
	if err != nil {
		return nil, err
	}
	plan, err := d.Plan(group)
	if err != nil {
		return nil, err
	}
	if len(plan) == 0 {
		logging.LogEvent("Group %s has no configurations; nothing to run", group)
		return nil, nil
	}

	sweepID := newSweepID()
	logging.LogRun("sweep", logging.RunFields{SweepID: sweepID, Group: group}, map[string]any{
		"runs":    len(plan),
		"levels":  d.Levels,
		"variant": variant,
	})

	acc := NewAccumulator(variant.Policy())
	// Without configured names, the first run fixes the metric set for the sweep.
	expected := d.ExpectedMetrics
	for i, inv := range plan {
		fields := logging.RunFields{SweepID: sweepID, Group: group, Configuration: inv.Configuration.Key(), Level: inv.Level}
		fail := func(err error) (*Report, error) {
			logging.LogRun("failed", fields, err)
			return nil, &SweepError{Group: group, Configuration: inv.Configuration.Key(), Level: inv.Level, Err: err}
		}

		d.notify(Event{Kind: EventRunStarted, SweepID: sweepID, Group: group, Invocation: inv, Index: i + 1, Total: len(plan)})
		logging.LogRun("start", fields, nil)

		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := d.Runner.Run(ctx, inv); err != nil {
			return fail(err)
		}
		set, err := ReadResultFile(d.ResultPath)
		if err != nil {
			return fail(err)
		}
		if err := CheckMetricNames(expected, set, inv); err != nil {
			return fail(err)
		}
		if len(expected) == 0 {
			expected = set.Names()
		}
		if err := acc.Merge(inv.Configuration, inv.Level, set); err != nil {
			return fail(err)
		}

		logging.LogDebug("run %d/%d merged %d samples over metrics %v", i+1, len(plan), set.Len(), set.Names())
		d.notify(Event{Kind: EventRunFinished, SweepID: sweepID, Group: group, Invocation: inv, Index: i + 1, Total: len(plan), Samples: set.Len()})
	}

	entries := acc.Entries()
	stats := make([]EntryStats, 0, len(entries))
	for _, e := range entries {
		s, err := ReduceEntry(e)
		if err != nil {
			logging.LogRun("failed", logging.RunFields{SweepID: sweepID, Group: group, Configuration: e.Key()}, err)
			return nil, &SweepError{Group: group, Configuration: e.Key(), Err: err}
		}
		stats = append(stats, s)
	}

	artifact, err := BuildArtifact(variant, entries, stats)
	if err != nil {
		return nil, &SweepError{Group: group, Err: err}
	}
	path, err := d.Writer.Write(group, artifact)
	if err != nil {
		return nil, &SweepError{Group: group, Err: err}
	}
	logging.LogRun("persisted", logging.RunFields{SweepID: sweepID, Group: group}, path)

	return &Report{
		SweepID:  sweepID,
		Group:    group,
		Variant:  variant,
		Levels:   append([]string{}, d.Levels...),
		Runs:     len(plan),
		Path:     path,
		Stats:    stats,
		Artifact: artifact,
	}, nil
}

func (d *Driver) check() error {
	var errs []error
	if d.Runner == nil {
		errs = append(errs, errors.New("no runner configured"))
	}
	if d.Writer == nil {
		errs = append(errs, errors.New("no artifact writer configured"))
	}
	if d.ResultPath == "" {
		errs = append(errs, errors.New("no result file configured"))
	}
	if len(d.Levels) == 0 {
		errs = append(errs, errors.New("no levels configured"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid sweep driver: %w", err)
	}
	return nil
}

func (d *Driver) notify(ev Event) {
	if d.Observe != nil {
		d.Observe(ev)
	}
}
