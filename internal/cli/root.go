// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/sweep/internal/appconfig"
	"github.com/mwiater/sweep/internal/logging"
)

var (
	cfgFile       string
	configPath    string
	configLoaded  bool
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"

	errorText = color.New(color.FgRed, color.Bold).SprintFunc()
)

// stringFlags are persistent flags that mirror a config key of the same name.
var stringFlags = []string{"logFile", "outputDir", "variant", "workDir"}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "sweep",
	Short:         "sweep: run a benchmark over feature configurations and levels, and aggregate the timings",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}
		for _, name := range stringFlags {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}

		cfg := appconfig.Default()
		if configLoaded {
			loaded, err := appconfig.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		overlayFlags(&cfg)
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(currentConfig.Debug)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the running sweep, which kills the benchmark process.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logging.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorText("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (JSON or YAML)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file (default sweep.log)")
	rootCmd.PersistentFlags().String("outputDir", "", "directory for statistics artifacts (default .)")
	rootCmd.PersistentFlags().String("variant", "", "artifact layout: flat, flat-mean, per-level or per-level-stats")
	rootCmd.PersistentFlags().String("workDir", "", "directory the benchmark command runs in")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	for _, name := range stringFlags {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if path, ok := appconfig.Locate(cfgFile); ok {
		viper.SetConfigFile(path)
	}
}

// ensureConfigLoaded reads the config file. A missing file leaves the built-in defaults.
func ensureConfigLoaded() error {
	configLoaded = false
	path, ok := appconfig.Locate(cfgFile)
	if !ok {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	configPath = path
	configLoaded = true
	return nil
}

// overlayFlags applies the bound flag values on top of the file values. An
// unchanged flag reports the config value through viper, so this is a no-op
// for it.
func overlayFlags(cfg *appconfig.Config) {
	cfg.Debug = viper.GetBool("debug")
	fields := map[string]*string{
		"logFile":   &cfg.LogFile,
		"outputDir": &cfg.OutputDir,
		"variant":   &cfg.Variant,
		"workDir":   &cfg.WorkDir,
	}
	for _, name := range stringFlags {
		if v := viper.GetString(name); v != "" {
			*fields[name] = v
		}
	}
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
