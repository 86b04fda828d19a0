// internal/cli/show_config.go
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/sweep/internal/appconfig"
)

var showConfigRaw bool

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if showConfigRaw && cfg != nil {
			return appconfig.ShowConfigRaw(cmd.OutOrStdout(), *cfg)
		}
		fallback := appconfig.Default()
		fallback.Debug = viper.GetBool("debug")
		file := ""
		if cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, cfg, fallback)
		return nil
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&showConfigRaw, "raw", false, "dump the full configuration structure")
	showCmd.AddCommand(showConfigCmd)
}
