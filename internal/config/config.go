// Package config holds the style and layout configuration for timeline rendering.
//
// The configuration maps directly to YAML files and controls all aspects of the
// timeline, including:
//   - Font, measurement and color settings
//   - Canvas dimensions, margins and orientation
//   - Time scale domain, ticks and zoom limits
//   - Label placement and collision avoidance
//   - Side assignment for event groups
//   - Event marker and tooltip styling
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Orientations of the time axis.
const (
	Horizontal = "horizontal" // time runs left to right, labels above and below
	Vertical   = "vertical"   // time runs top to bottom, labels left and right
)

// Layout strategies for label collision avoidance.
const (
	FixedPoint = "fixed-point" // repeat until no same-side labels overlap
	SinglePass = "single-pass" // one sweep over every pair, may leave overlaps
)

// Side directions used in Sides.Assign.
const (
	Before = "before" // above a horizontal axis, left of a vertical one
	After  = "after"  // below a horizontal axis, right of a vertical one
)

// Text measurers.
const (
	MeasureHeuristic = "heuristic"
	MeasureGoRegular = "goregular"
)

// DateLayout is the calendar date format used in config and input data.
const DateLayout = "2006-01-02"

// FontConfig controls label typography.
type FontConfig struct {
	Family  string  `yaml:"family"`  // Font family for all text elements (e.g., "Arial, sans-serif")
	Size    float64 `yaml:"size"`    // Base font size in pixels for labels
	Measure string  `yaml:"measure"` // Text measurer: "heuristic" or "goregular"
}

// ColorConfig holds hex color codes.
type ColorConfig struct {
	Background string `yaml:"background"` // SVG background color
	Axis       string `yaml:"axis"`       // Main timeline line, ticks and callouts
	Text       string `yaml:"text"`       // Label text
	Notes      string `yaml:"notes"`      // Secondary label lines (dates)
	Tooltip    string `yaml:"tooltip"`    // Tooltip background
}

// LayoutConfig controls the canvas.
type LayoutConfig struct {
	Width           int     `yaml:"width"`             // Total SVG width in pixels
	Height          int     `yaml:"height"`            // Total SVG height in pixels
	MarginTop       int     `yaml:"margin_top"`        // Top margin in pixels
	MarginBottom    int     `yaml:"margin_bottom"`     // Bottom margin in pixels
	MarginLeft      int     `yaml:"margin_left"`       // Left margin in pixels
	MarginRight     int     `yaml:"margin_right"`      // Right margin in pixels
	Orientation     string  `yaml:"orientation"`       // "horizontal" or "vertical"
	SpacingPerEvent float64 `yaml:"spacing_per_event"` // When > 0, the axis length grows with the event count
	AxisBuffer      float64 `yaml:"axis_buffer"`       // Space kept free before the first and after the last date
}

// ScaleConfig controls the time domain and zoom.
type ScaleConfig struct {
	DomainStart    string  `yaml:"domain_start"`     // Fixed domain start (YYYY-MM-DD), empty = first event
	DomainEnd      string  `yaml:"domain_end"`       // Fixed domain end (YYYY-MM-DD), empty = last event
	PadYears       int     `yaml:"pad_years"`        // Years added on both sides of a data-derived domain
	TickEveryYears int     `yaml:"tick_every_years"` // Distance between year ticks, 0 disables ticks
	MinZoom        float64 `yaml:"min_zoom"`         // Smallest allowed zoom scale
	MaxZoom        float64 `yaml:"max_zoom"`         // Largest allowed zoom scale
}

// LabelConfig controls label placement and collision avoidance.
type LabelConfig struct {
	BaseDistance float64 `yaml:"base_distance"` // Initial distance between anchor and label
	Step         float64 `yaml:"step"`          // Outward push applied on each overlap
	Strategy     string  `yaml:"strategy"`      // "fixed-point" or "single-pass"
	MaxPasses    int     `yaml:"max_passes"`    // Upper bound on fixed-point passes
	WrapWidth    int     `yaml:"wrap_width"`    // Characters per label line, 0 disables wrapping
	ShowDates    bool    `yaml:"show_dates"`    // Whether to add a date line under the description
	Padding      float64 `yaml:"padding"`       // Padding added around each label box
	LinePadding  float64 `yaml:"line_padding"`  // Vertical padding between label lines
}

// SideConfig controls which side of the axis each group is drawn on.
type SideConfig struct {
	Field  string            `yaml:"field"`  // Grouping field: "country" or "category"
	Assign map[string]string `yaml:"assign"` // Group value -> "before" or "after"; others alternate
}

// FilterConfig controls the default selector.
type FilterConfig struct {
	Field     string `yaml:"field"`     // Field the selector compares against: "country" or "category"
	Selection string `yaml:"selection"` // Initial selection, "all" for everything
}

// MarkerConfig styles event markers.
type MarkerConfig struct {
	Shape       string `yaml:"shape"`        // Marker shape: "circle", "triangle", "square", or "diamond"
	Size        int    `yaml:"size"`         // Radius for circle, half side for the others
	FillColor   string `yaml:"fill_color"`   // Fill color of the marker
	StrokeColor string `yaml:"stroke_color"` // Border/stroke color of the marker
	StrokeWidth int    `yaml:"stroke_width"` // Width of the marker border in pixels
}

// TooltipConfig controls hover tooltips.
type TooltipConfig struct {
	FadeIn  float64 `yaml:"fade_in"`  // Seconds to reach full opacity
	FadeOut float64 `yaml:"fade_out"` // Seconds to disappear
	Opacity float64 `yaml:"opacity"`  // Opacity when fully shown
}

// Config represents the complete configuration for timeline layout and rendering.
//
// Key configuration patterns:
//   - Dense clusters: keep labels.strategy = fixed-point, lower labels.step for tighter stacks
//   - Book-style vertical timelines: layout.orientation = vertical with sides.assign per country
//   - Long spans: raise scale.tick_every_years to thin out the axis
type Config struct {
	Font        FontConfig    `yaml:"font"`
	Colors      ColorConfig   `yaml:"colors"`
	Layout      LayoutConfig  `yaml:"layout"`
	Scale       ScaleConfig   `yaml:"scale"`
	Labels      LabelConfig   `yaml:"labels"`
	Sides       SideConfig    `yaml:"sides"`
	Filter      FilterConfig  `yaml:"filter"`
	EventMarker MarkerConfig  `yaml:"event_marker"`
	Tooltip     TooltipConfig `yaml:"tooltip"`
}

// Default returns the default configuration with sensible defaults for all parameters:
//   - 1200x800px horizontal canvas with 100px side margins
//   - 12px Arial font measured with the heuristic measurer
//   - 40px base label distance, 15px overlap step, fixed-point resolution
//   - one year of domain padding and a tick every five years
//   - blue circle markers, 200ms/500ms tooltip fades
func Default() Config {
	return Config{
		Font: FontConfig{
			Family:  "Arial, sans-serif",
			Size:    12,
			Measure: MeasureHeuristic,
		},
		Colors: ColorConfig{
			Background: "#ffffff",
			Axis:       "#333333",
			Text:       "#333333",
			Notes:      "#666666",
			Tooltip:    "#f5f5dc",
		},
		Layout: LayoutConfig{
			Width:        1200,
			Height:       800,
			MarginTop:    50,
			MarginBottom: 50,
			MarginLeft:   100,
			MarginRight:  100,
			Orientation:  Horizontal,
			AxisBuffer:   50,
		},
		Scale: ScaleConfig{
			PadYears:       1,
			TickEveryYears: 5,
			MinZoom:        1,
			MaxZoom:        20,
		},
		Labels: LabelConfig{
			BaseDistance: 40,
			Step:         15,
			Strategy:     FixedPoint,
			MaxPasses:    1000,
			WrapWidth:    24,
			ShowDates:    true,
			Padding:      5,
			LinePadding:  2,
		},
		Sides: SideConfig{
			Field:  "country",
			Assign: map[string]string{},
		},
		Filter: FilterConfig{
			Field:     "country",
			Selection: "all",
		},
		EventMarker: MarkerConfig{
			Shape:       "circle",
			Size:        5,
			FillColor:   "#4285f4",
			StrokeColor: "#333333",
			StrokeWidth: 1,
		},
		Tooltip: TooltipConfig{
			FadeIn:  0.2,
			FadeOut: 0.5,
			Opacity: 0.9,
		},
	}
}

// Load loads configuration from a YAML file or returns the default config if no
// file is specified. Values missing from the file keep their defaults.
func Load(configPath string) (Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

// Save writes the configuration to path as YAML.
func Save(config Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Layout.Width <= c.Layout.MarginLeft+c.Layout.MarginRight {
		errs = append(errs, fmt.Errorf("layout.width %d leaves no room between margins", c.Layout.Width))
	}
	if c.Layout.Height <= c.Layout.MarginTop+c.Layout.MarginBottom && c.Layout.SpacingPerEvent <= 0 {
		errs = append(errs, fmt.Errorf("layout.height %d leaves no room between margins", c.Layout.Height))
	}
	switch c.Layout.Orientation {
	case Horizontal, Vertical:
	default:
		errs = append(errs, fmt.Errorf("unknown layout.orientation %q", c.Layout.Orientation))
	}
	switch c.Labels.Strategy {
	case FixedPoint, SinglePass:
	default:
		errs = append(errs, fmt.Errorf("unknown labels.strategy %q", c.Labels.Strategy))
	}
	switch c.Font.Measure {
	case MeasureHeuristic, MeasureGoRegular:
	default:
		errs = append(errs, fmt.Errorf("unknown font.measure %q", c.Font.Measure))
	}
	if c.Font.Size <= 0 {
		errs = append(errs, errors.New("font.size must be positive"))
	}
	if c.Labels.Step <= 0 {
		errs = append(errs, errors.New("labels.step must be positive"))
	}
	if c.Scale.MinZoom <= 0 || c.Scale.MaxZoom < c.Scale.MinZoom {
		errs = append(errs, fmt.Errorf("zoom extent [%g, %g] is invalid", c.Scale.MinZoom, c.Scale.MaxZoom))
	}
	for group, side := range c.Sides.Assign {
		if side != Before && side != After {
			errs = append(errs, fmt.Errorf("sides.assign[%s]: want %q or %q, got %q", group, Before, After, side))
		}
	}
	if _, _, _, err := c.Domain(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Domain returns the fixed domain if both ends are configured. ok is false when
// the domain should be derived from data.
func (c Config) Domain() (start, end time.Time, ok bool, err error) {
	if c.Scale.DomainStart == "" && c.Scale.DomainEnd == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if c.Scale.DomainStart == "" || c.Scale.DomainEnd == "" {
		return time.Time{}, time.Time{}, false, errors.New("scale.domain_start and scale.domain_end must be set together")
	}
	start, err = time.Parse(DateLayout, strings.TrimSpace(c.Scale.DomainStart))
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("scale.domain_start: %w", err)
	}
	end, err = time.Parse(DateLayout, strings.TrimSpace(c.Scale.DomainEnd))
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("scale.domain_end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false, errors.New("scale.domain_end is before scale.domain_start")
	}
	return start, end, true, nil
}

// AxisLength returns the drawable length of the time axis for n events.
func (c Config) AxisLength(n int) float64 {
	if c.Layout.Orientation == Vertical {
		if c.Layout.SpacingPerEvent > 0 {
			return float64(n) * c.Layout.SpacingPerEvent
		}
		return float64(c.Layout.Height - c.Layout.MarginTop - c.Layout.MarginBottom)
	}
	if c.Layout.SpacingPerEvent > 0 {
		return float64(n) * c.Layout.SpacingPerEvent
	}
	return float64(c.Layout.Width - c.Layout.MarginLeft - c.Layout.MarginRight)
}

// AxisPosition returns the across-axis coordinate of the timeline line.
func (c Config) AxisPosition() float64 {
	if c.Layout.Orientation == Vertical {
		return float64(c.Layout.MarginLeft) + float64(c.Layout.Width-c.Layout.MarginLeft-c.Layout.MarginRight)/2
	}
	return float64(c.Layout.MarginTop) + float64(c.Layout.Height-c.Layout.MarginTop-c.Layout.MarginBottom)/2
}

// AxisStart returns the along-axis coordinate where the axis begins.
func (c Config) AxisStart() float64 {
	if c.Layout.Orientation == Vertical {
		return float64(c.Layout.MarginTop)
	}
	return float64(c.Layout.MarginLeft)
}

// CanvasSize returns the SVG width and height for n events. Fixed dimensions
// are used unless layout.spacing_per_event lets the axis grow.
func (c Config) CanvasSize(n int) (width, height int) {
	width, height = c.Layout.Width, c.Layout.Height
	if c.Layout.SpacingPerEvent <= 0 {
		return width, height
	}
	axis := int(c.AxisLength(n))
	if c.Layout.Orientation == Vertical {
		return width, axis + c.Layout.MarginTop + c.Layout.MarginBottom
	}
	return axis + c.Layout.MarginLeft + c.Layout.MarginRight, height
}
