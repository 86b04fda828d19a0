// internal/cli/list.go
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listLevels bool

var (
	groupName   = color.New(color.FgCyan, color.Bold).SprintFunc()
	defaultMark = color.New(color.FgGreen).SprintFunc()
)

// listCmd implements 'list', which prints the experiment groups.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List experiment groups and their configurations",
	Long:  `The 'list' command prints every experiment group with its feature configurations in sweep order. Use --levels to include the level list.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return errors.New("configuration not loaded")
		}
		out := cmd.OutOrStdout()
		def := cfg.DefaultGroupName()
		for _, g := range cfg.Groups {
			mark := ""
			if g.Name == def {
				mark = " " + defaultMark("(default)")
			}
			fmt.Fprintf(out, "%s%s: %d configurations\n", groupName(g.Name), mark, len(g.Configurations))
			for _, c := range g.Configurations {
				fmt.Fprintf(out, "  %s\n", c.Label())
			}
		}
		if listLevels {
			fmt.Fprintf(out, "Levels: %s\n", strings.Join(cfg.Levels, ", "))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listLevels, "levels", false, "also list the levels every configuration is run on")
	rootCmd.AddCommand(listCmd)
}
