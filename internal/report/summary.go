// internal/report/summary.go
// Package report renders sweep outcomes for people and for scrapers.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mwiater/sweep/internal/sweep"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// formatMillis renders a millisecond value the way the summary shows it.
func formatMillis(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// WriteSummary prints the statistics of a finished sweep: one row per
// configuration and metric, then a table of per-level means when the sweep
// kept levels apart.
func WriteSummary(out io.Writer, r *sweep.Report) {
	if r == nil {
		return
	}
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Sweep %s: group %s, %d runs, variant %s", r.SweepID, r.Group, r.Runs, r.Variant)))
	fmt.Fprintln(out, overallTable(r.Stats))

	if r.Variant.Policy() == sweep.PolicyPerLevel {
		fmt.Fprintln(out, titleStyle.Render("Mean per level (ms)"))
		fmt.Fprintln(out, perLevelTable(r.Stats, r.Levels))
	}
	if r.Path != "" {
		fmt.Fprintf(out, "Statistics written to %s\n", r.Path)
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

func overallTable(stats []sweep.EntryStats) string {
	t := newTable("Configuration", "Metric", "Samples", "Mean (ms)", "Std (ms)", "Median (ms)")
	for _, s := range stats {
		for _, metric := range s.Metrics {
			sum := s.Overall[metric]
			t.Row(
				s.Configuration.Label(),
				metric,
				strconv.Itoa(sum.Count),
				formatMillis(sum.Mean),
				formatMillis(sum.StdDev),
				formatMillis(sum.Median),
			)
		}
	}
	return t.String()
}

func perLevelTable(stats []sweep.EntryStats, levels []string) string {
	t := newTable(append([]string{"Configuration", "Metric"}, levels...)...)
	for _, s := range stats {
		for _, metric := range s.Metrics {
			row := []string{s.Configuration.Label(), metric}
			for _, level := range levels {
				sum, ok := s.PerLevel[metric][level]
				if !ok {
					row = append(row, "-")
					continue
				}
				row = append(row, formatMillis(sum.Mean)+" ± "+formatMillis(sum.StdDev))
			}
			t.Row(row...)
		}
	}
	return t.String()
}

// WritePlan prints the command lines a sweep would execute, in order.
func WritePlan(out io.Writer, group string, plan []sweep.Invocation, spec sweep.CommandSpec) {
	if len(plan) == 0 {
		fmt.Fprintf(out, "Group %s has no configurations; nothing to run.\n", group)
		return
	}
	fmt.Fprintf(out, "Group %s: %d runs\n", group, len(plan))
	for i, inv := range plan {
		fmt.Fprintf(out, "  %3d  %s\n", i+1, strings.Join(spec.Args(inv), " "))
	}
	if spec.WorkDir != "" {
		fmt.Fprintf(out, "Working directory: %s\n", spec.WorkDir)
	}
}
