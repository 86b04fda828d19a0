// internal/cli/plot.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/sweep/internal/chart"
	"github.com/mwiater/sweep/internal/sweep"
)

type plotOptions struct {
	format string
	input  string
	output string
}

var plotOpts plotOptions

// plotCmd implements 'plot', which charts a group's statistics artifact.
var plotCmd = &cobra.Command{
	Use:   "plot [group]",
	Short: "Chart the statistics of a finished sweep",
	Long: `Read statistics-<group>.json and draw one grouped bar chart per metric:
levels on the X axis, one bar per configuration, bar height the mean in
milliseconds. PNG writes one image per metric; HTML writes a single page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return errors.New("configuration not loaded")
		}
		group := groupArg(cfg, args)

		input := plotOpts.input
		if input == "" {
			input = cfg.ArtifactPath(group)
		}
		artifact, err := sweep.ReadArtifact(input)
		if err != nil {
			return err
		}
		datasets, err := chart.BuildDatasets(artifact)
		if err != nil {
			return err
		}

		dir := plotOpts.output
		if dir == "" {
			dir = cfg.OutputPath()
		}
		var paths []string
		switch plotOpts.format {
		case "png":
			paths, err = chart.WritePNG(dir, group, datasets)
		case "html":
			var path string
			path, err = chart.WriteHTML(dir, group, datasets)
			paths = []string{path}
		default:
			return fmt.Errorf("unknown chart format %q (expected png or html)", plotOpts.format)
		}
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", p)
		}
		return nil
	},
}

func init() {
	plotCmd.Flags().StringVar(&plotOpts.format, "format", "png", "chart format: png or html")
	plotCmd.Flags().StringVar(&plotOpts.input, "input", "", "artifact to read (default <outputDir>/statistics-<group>.json)")
	plotCmd.Flags().StringVar(&plotOpts.output, "output", "", "directory for the charts (default outputDir)")
	rootCmd.AddCommand(plotCmd)
}
