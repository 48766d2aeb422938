// Package cmd defines the command-line interface for timeline2svg.
package cmd

import (
	"time"

	"github.com/dbitech/timeline2svg/internal/logx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	configCmd.AddCommand(configInitCmd)

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode for verbose output")
	rootCmd.PersistentFlags().Bool("color", true, "Enable colored output")
	rootCmd.PersistentFlags().StringP("data", "d", "", "JSON or CSV file, or http(s) URL, with timeline data")
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML style and layout configuration (optional)")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Selection to show: all, or comma-separated values")
	rootCmd.PersistentFlags().String("filter-field", "", "Field the filter compares: country or category")
	rootCmd.PersistentFlags().String("side-field", "", "Field that decides the label side: country or category")
	rootCmd.PersistentFlags().String("orientation", "", "Axis orientation: horizontal or vertical")
	rootCmd.PersistentFlags().String("strategy", "", "Overlap resolution: fixed-point or single-pass")
	rootCmd.PersistentFlags().Float64("zoom", 1, "Zoom scale applied around the axis centre")
	rootCmd.PersistentFlags().Float64("pan", 0, "Pan offset along the axis in pixels")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output SVG filename (default: data file name with .svg)")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Timeout for fetching data from a URL")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		logx.Fatal("Error binding root flags", err)
	}

	layoutCmd.Flags().String("format", "text", "Report format: text or json or csv or tree or parquet")
	layoutCmd.Flags().String("output-file", "", "Optional path to write the report to (required for parquet)")
	layoutCmd.Flags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	if err := viper.BindPFlags(layoutCmd.Flags()); err != nil {
		logx.Fatal("Error binding layout flags", err)
	}

	replayCmd.Flags().String("script", "", "YAML list of interaction steps")
	if err := viper.BindPFlags(replayCmd.Flags()); err != nil {
		logx.Fatal("Error binding replay flags", err)
	}

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
