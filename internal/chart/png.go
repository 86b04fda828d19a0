package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var (
	barWidth   = vg.Points(14)
	barSpacing = vg.Points(2)
)

// PNGName is the file name of the chart of one metric.
func PNGName(group, metric string) string {
	return fmt.Sprintf("%s-%s.png", group, metric)
}

// WritePNG saves one grouped bar chart per dataset into dir and returns the
// written paths.
func WritePNG(dir, group string, datasets []Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating chart directory: %w", err)
	}
	var paths []string
	for _, ds := range datasets {
		p, err := barPlot(group, ds)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, PNGName(group, ds.Metric))
		if err := p.Save(9*vg.Inch, 6*vg.Inch, path); err != nil {
			return paths, fmt.Errorf("error saving chart %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func barPlot(group string, ds Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s", group, ds.Metric)
	p.Y.Label.Text = "mean (ms)"
	p.Y.Min = 0
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = 1 * vg.Millimeter

	// Center each group of bars on its category tick.
	groupWidth := (barWidth + barSpacing) * vg.Length(len(ds.Series)-1)
	for i, s := range ds.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth)
		if err != nil {
			return nil, fmt.Errorf("chart %s series %s: %w", ds.Metric, s.Label, err)
		}
		bars.Offset = (barWidth+barSpacing)*vg.Length(i) - groupWidth/2
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(s.Label, bars)
	}
	p.NominalX(ds.Categories...)
	return p, nil
}
