// internal/cli/run.go
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/sweep/internal/appconfig"
	"github.com/mwiater/sweep/internal/report"
	"github.com/mwiater/sweep/internal/sweep"
)

type runOptions struct {
	dryRun      bool
	metricsFile string
}

var runOpts runOptions

// newRunner builds the runner that executes one benchmark invocation.
var newRunner = func(spec sweep.CommandSpec, stdout, stderr io.Writer) sweep.Runner {
	return sweep.NewCommandRunner(spec, stdout, stderr)
}

// runCmd implements 'run', which sweeps one experiment group.
var runCmd = &cobra.Command{
	Use:   "run [group]",
	Short: "Run a benchmark sweep over one experiment group",
	Long: `Run the benchmark once for every configuration of the group and every level,
aggregate the reported timings and write statistics-<group>.json. Without a group
argument the configured default group is used. Any failing run aborts the sweep
and nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return errors.New("configuration not loaded")
		}
		group := groupArg(cfg, args)
		out := cmd.OutOrStdout()
		if len(args) == 0 && !cfg.HasGroup(group) {
			fmt.Fprintf(out, "Group %s has no configurations; nothing to run.\n", group)
			return nil
		}

		driver, err := newDriver(cfg, out, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if runOpts.dryRun {
			plan, err := driver.Plan(group)
			if err != nil {
				return err
			}
			report.WritePlan(out, group, plan, cfg.CommandSpec())
			return nil
		}

		result, err := driver.Run(cmd.Context(), group)
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Fprintf(out, "Group %s has no configurations; nothing to run.\n", group)
			return nil
		}
		report.WriteSummary(out, result)

		metricsFile := runOpts.metricsFile
		if metricsFile == "" {
			metricsFile = cfg.MetricsFile
		}
		if metricsFile != "" {
			if err := report.WriteTextfile(metricsFile, result); err != nil {
				return err
			}
			fmt.Fprintf(out, "Metrics written to %s\n", metricsFile)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOpts.dryRun, "dry-run", false, "print the commands the sweep would run without running them")
	runCmd.Flags().StringVar(&runOpts.metricsFile, "metrics-file", "", "also write the statistics as a Prometheus textfile")
	rootCmd.AddCommand(runCmd)
}

// groupArg picks the group named on the command line or the configured default.
func groupArg(cfg *appconfig.Config, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.DefaultGroupName()
}

func newDriver(cfg *appconfig.Config, stdout, stderr io.Writer) (*sweep.Driver, error) {
	variant, err := cfg.SweepVariant()
	if err != nil {
		return nil, err
	}
	spec := cfg.CommandSpec()
	return &sweep.Driver{
		Groups:          cfg.Groups,
		Levels:          cfg.Levels,
		Runner:          newRunner(spec, stdout, stderr),
		ResultPath:      spec.ResultPath(),
		Variant:         variant,
		ExpectedMetrics: cfg.ExpectedMetrics,
		Writer:          sweep.FileWriter{Dir: cfg.OutputPath()},
		Observe:         report.NewProgress(stdout).Observe,
	}, nil
}
