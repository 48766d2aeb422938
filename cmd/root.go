package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dbitech/timeline2svg/internal/config"
	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/logx"
	"github.com/dbitech/timeline2svg/internal/view"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Linker flags, set at release build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "timeline2svg",
	Short: "Lay out dated events on a timeline and render them as SVG.",
	Long: `timeline2svg places dated events on a time axis, stacks their labels so that
labels on the same side never overlap, and renders the result as SVG.

Events are read from JSON or CSV (country, event, date, optional category),
either from a file or from an http(s) URL.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logx.SetDebug(viper.GetBool("debug"))
		color.NoColor = color.NoColor || !viper.GetBool("color")
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads the CLI defaults file and environment variables.
func initConfig() {
	viper.SetConfigName(".timeline2svg")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")

	viper.SetEnvPrefix("TIMELINE2SVG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("format", "text")
	viper.SetDefault("zoom", 1.0)
	viper.SetDefault("color", true)
	viper.SetDefault("timeout", 30*time.Second)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logx.Warn("Cannot read CLI defaults file", err)
		}
	}
}

// runOptions are the resolved values of flags, env and the defaults file.
type runOptions struct {
	Data        string
	Config      string
	Filter      string
	FilterField string
	SideField   string
	Orientation string
	Strategy    string
	Zoom        float64
	Pan         float64
	Output      string
	Format      string
	OutputFile  string
	Script      string
	Width       int
	Timeout     time.Duration
}

func optionsFromViper() runOptions {
	return runOptions{
		Data:        viper.GetString("data"),
		Config:      viper.GetString("config"),
		Filter:      viper.GetString("filter"),
		FilterField: viper.GetString("filter-field"),
		SideField:   viper.GetString("side-field"),
		Orientation: viper.GetString("orientation"),
		Strategy:    viper.GetString("strategy"),
		Zoom:        viper.GetFloat64("zoom"),
		Pan:         viper.GetFloat64("pan"),
		Output:      viper.GetString("output"),
		Format:      viper.GetString("format"),
		OutputFile:  viper.GetString("output-file"),
		Script:      viper.GetString("script"),
		Width:       viper.GetInt("width"),
		Timeout:     viper.GetDuration("timeout"),
	}
}

// session is a loaded configuration, event store and view handler.
type session struct {
	cfg     config.Config
	store   *event.Store
	handler *view.Handler
}

// loadConfig reads the style config and applies command-line overrides.
func loadConfig(opts runOptions) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, err
	}
	if opts.FilterField != "" {
		cfg.Filter.Field = opts.FilterField
	}
	if opts.Filter != "" {
		cfg.Filter.Selection = opts.Filter
	}
	if opts.SideField != "" {
		cfg.Sides.Field = opts.SideField
	}
	if opts.Orientation != "" {
		cfg.Layout.Orientation = opts.Orientation
	}
	if opts.Strategy != "" {
		cfg.Labels.Strategy = opts.Strategy
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	logx.Debugf("Configuration loaded. Font size: %.1f, Show dates: %t", cfg.Font.Size, cfg.Labels.ShowDates)
	return cfg, nil
}

// openSession loads config and events. A source without valid events is
// reported as a warning and yields an empty session.
func openSession(ctx context.Context, opts runOptions) (*session, error) {
	if opts.Data == "" {
		return nil, errors.New("no data source given, use --data")
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	store, err := event.Load(ctx, opts.Data)
	var empty *event.EmptyDomainError
	switch {
	case errors.As(err, &empty):
		logx.Warn("Nothing to draw", err)
	case err != nil:
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d events from %s\n", store.Len(), opts.Data)

	handler, err := view.NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, store: store, handler: handler}, nil
}

// outputFilename returns output, or the data file name with an .svg extension.
func outputFilename(data, output string) string {
	if output != "" {
		return output
	}
	base := filepath.Base(data)
	if strings.HasPrefix(data, "http://") || strings.HasPrefix(data, "https://") {
		base = filepath.Base(strings.SplitN(strings.SplitN(data, "?", 2)[0], "#", 2)[0])
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" || name == "." || name == "/" {
		name = "timeline"
	}
	return name + ".svg"
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
