package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTMLName is the file name of a group's chart page.
func HTMLName(group string) string {
	return fmt.Sprintf("%s-charts.html", group)
}

// RenderHTML writes a page with one bar chart per dataset.
func RenderHTML(w io.Writer, group string, datasets []Dataset) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("sweep %s", group)
	for _, ds := range datasets {
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "560px"}),
			charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s: %s", group, ds.Metric), Subtitle: "mean (ms)"}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		)
		bar.SetXAxis(ds.Categories)
		for _, s := range ds.Series {
			data := make([]opts.BarData, len(s.Values))
			for i, v := range s.Values {
				data[i] = opts.BarData{Value: v}
			}
			bar.AddSeries(s.Label, data)
		}
		page.AddCharts(bar)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("error rendering chart page: %w", err)
	}
	return nil
}

// WriteHTML renders the chart page of group into dir and returns its path.
func WriteHTML(dir, group string, datasets []Dataset) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating chart directory: %w", err)
	}
	path := filepath.Join(dir, HTMLName(group))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating chart page: %w", err)
	}
	if err := RenderHTML(f, group, datasets); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing chart page: %w", err)
	}
	return path, nil
}
