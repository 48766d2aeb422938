package cmd

import (
	"fmt"
	"os"

	"github.com/dbitech/timeline2svg/internal/config"
	"github.com/spf13/cobra"
)

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage style and layout configuration files.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// configInitCmd writes the default configuration.
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration as YAML.",
	Long: `Write every configuration value with its default to a YAML file that can be
edited and passed back with --config. The default path is timeline.yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "timeline.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		return writeDefaultConfig(path, force, cmd)
	},
}

func writeDefaultConfig(path string, force bool, cmd *cobra.Command) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	cmd.Printf("Default configuration written to %s\n", path)
	return nil
}
