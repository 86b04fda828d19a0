package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/fatih/color"

	"github.com/mwiater/sweep/internal/sweep"
)

var (
	runLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	doneLabel = color.New(color.FgGreen).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
)

// Progress prints one line per run event. The bar is rendered statically so
// the benchmark's own output can interleave with it.
type Progress struct {
	out io.Writer
	bar progress.Model
}

// NewProgress returns an observer writing to out.
func NewProgress(out io.Writer) *Progress {
	return &Progress{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
	}
}

// Observe renders ev. It is meant to be set as sweep.Driver.Observe.
func (p *Progress) Observe(ev sweep.Event) {
	switch ev.Kind {
	case sweep.EventRunStarted:
		fmt.Fprintf(p.out, "%s %s %s @ %s\n",
			runLabel(fmt.Sprintf("[%d/%d]", ev.Index, ev.Total)),
			p.bar.ViewAs(fraction(ev.Index-1, ev.Total)),
			ev.Invocation.Configuration.Label(),
			ev.Invocation.Level,
		)
	case sweep.EventRunFinished:
		fmt.Fprintf(p.out, "%s %s %s\n",
			doneLabel(fmt.Sprintf("[%d/%d] done", ev.Index, ev.Total)),
			p.bar.ViewAs(fraction(ev.Index, ev.Total)),
			faint(fmt.Sprintf("%d samples", ev.Samples)),
		)
	}
}

func fraction(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total)
}
