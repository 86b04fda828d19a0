package appconfig

import (
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}
	if cfg == nil {
		cfg = &fallback
	}

	variant, err := cfg.SweepVariant()
	variantText := string(variant)
	if err != nil {
		variantText = fmt.Sprintf("%s (invalid)", cfg.Variant)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Command:         %s\n", strings.Join(cfg.Command, " "))
	fmt.Fprintf(out, "  Features Flag:   %s\n", cfg.FeaturesFlag)
	fmt.Fprintf(out, "  Level Flag:      %s\n", cfg.LevelFlag)
	fmt.Fprintf(out, "  Mode Token:      %s\n", cfg.ModeToken)
	fmt.Fprintf(out, "  Replace Default Features: %v\n", cfg.ReplaceDefaultFeatures)
	fmt.Fprintf(out, "  Work Dir:        %s\n", cfg.WorkDir)
	fmt.Fprintf(out, "  Result File:     %s\n", cfg.ResultPath())
	fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputPath())
	fmt.Fprintf(out, "  Variant:         %s\n", variantText)
	fmt.Fprintf(out, "  Levels:          %s\n", strings.Join(cfg.Levels, ", "))
	fmt.Fprintf(out, "  Default Group:   %s\n", cfg.DefaultGroupName())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	if len(cfg.ExpectedMetrics) > 0 {
		fmt.Fprintf(out, "  Expected Metrics: %s\n", strings.Join(cfg.ExpectedMetrics, ", "))
	}
	if cfg.MetricsFile != "" {
		fmt.Fprintf(out, "  Metrics File:    %s\n", cfg.MetricsFile)
	}
	fmt.Fprintln(out, "  Groups:")
	for _, g := range cfg.Groups {
		fmt.Fprintf(out, "    %s (%d configurations)\n", g.Name, len(g.Configurations))
	}
}

// ShowConfigRaw pretty-prints the whole configuration struct.
func ShowConfigRaw(out io.Writer, cfg Config) error {
	_, err := pp.Fprintln(out, cfg)
	return err
}
