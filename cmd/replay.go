package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/layout"
	"github.com/dbitech/timeline2svg/internal/render"
	"github.com/dbitech/timeline2svg/internal/view"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// replayCmd feeds a scripted interaction to the view handler.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a scripted interaction and report the render commands.",
	Long: `Drive the interactive view from a YAML script and print, for every step,
how many elements were entered, updated and exited.

A script is a list of steps, each naming exactly one input:

  steps:
    - load: true
    - filter: Benin
    - zoom: {factor: 2, focus: 600}
    - pan: -40
    - hover: {key: "1960-08-01|Independence|0"}
    - tick: 0.1
    - unhover: true
    - click: {x: 420, y: 400}
    - close: true
    - reset: true

A load step is added in front when the script does not start with one. With
--output the final state is written as SVG.

Examples:
  timeline2svg replay --data events.json --script session.yaml
  timeline2svg replay --data events.json --script session.yaml -o final.svg`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReplay(rootCtx, optionsFromViper(), cmd.OutOrStdout())
	},
}

// Script is a replayable list of inputs.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one scripted input. Exactly one field must be set.
type Step struct {
	Load    bool         `yaml:"load,omitempty"`
	Filter  *string      `yaml:"filter,omitempty"`
	Zoom    *ZoomStep    `yaml:"zoom,omitempty"`
	Pan     *float64     `yaml:"pan,omitempty"`
	Reset   bool         `yaml:"reset,omitempty"`
	Hover   *PointerStep `yaml:"hover,omitempty"`
	Unhover bool         `yaml:"unhover,omitempty"`
	Click   *PointerStep `yaml:"click,omitempty"`
	Close   bool         `yaml:"close,omitempty"`
	Tick    *float64     `yaml:"tick,omitempty"`
}

// ZoomStep zooms by Factor around Focus.
type ZoomStep struct {
	Factor float64 `yaml:"factor"`
	Focus  float64 `yaml:"focus"`
}

// PointerStep targets an element by key, or by screen position when Key is empty.
type PointerStep struct {
	Key string  `yaml:"key,omitempty"`
	X   float64 `yaml:"x,omitempty"`
	Y   float64 `yaml:"y,omitempty"`
}

func (p PointerStep) target() (event.Key, layout.Point, error) {
	at := layout.Point{X: p.X, Y: p.Y}
	if p.Key == "" {
		return event.Key{}, at, nil
	}
	k, err := event.ParseKey(p.Key)
	return k, at, err
}

func (p PointerStep) String() string {
	if p.Key != "" {
		return p.Key
	}
	return fmt.Sprintf("(%s, %s)", strconv.FormatFloat(p.X, 'f', -1, 64), strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// Input converts the step into a handler input and a short description.
func (s Step) Input() (view.Input, string, error) {
	var (
		inputs []view.Input
		labels []string
	)
	add := func(in view.Input, label string) {
		inputs = append(inputs, in)
		labels = append(labels, label)
	}

	if s.Load {
		add(view.Load{}, "load")
	}
	if s.Filter != nil {
		add(view.FilterChanged{Selection: *s.Filter}, "filter "+*s.Filter)
	}
	if s.Zoom != nil {
		add(view.Zoom{Factor: s.Zoom.Factor, Focus: s.Zoom.Focus}, fmt.Sprintf("zoom x%g at %g", s.Zoom.Factor, s.Zoom.Focus))
	}
	if s.Pan != nil {
		add(view.Pan{Delta: *s.Pan}, fmt.Sprintf("pan %g", *s.Pan))
	}
	if s.Reset {
		add(view.ResetZoom{}, "reset zoom")
	}
	if s.Hover != nil {
		k, at, err := s.Hover.target()
		if err != nil {
			return nil, "", err
		}
		add(view.Hover{Key: k, At: at}, "hover "+s.Hover.String())
	}
	if s.Unhover {
		add(view.Unhover{}, "unhover")
	}
	if s.Click != nil {
		k, at, err := s.Click.target()
		if err != nil {
			return nil, "", err
		}
		add(view.Click{Key: k, At: at}, "click "+s.Click.String())
	}
	if s.Close {
		add(view.Close{}, "close")
	}
	if s.Tick != nil {
		add(view.Tick{DT: *s.Tick}, fmt.Sprintf("tick %gs", *s.Tick))
	}

	switch len(inputs) {
	case 0:
		return nil, "", errors.New("step names no input")
	case 1:
		return inputs[0], labels[0], nil
	default:
		return nil, "", fmt.Errorf("step names %d inputs (%s), expected one", len(inputs), strings.Join(labels, ", "))
	}
}

// parseScript decodes a YAML script. Unknown step names are errors.
func parseScript(r io.Reader) (Script, error) {
	var script Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		if errors.Is(err, io.EOF) {
			return Script{}, nil
		}
		return Script{}, fmt.Errorf("error parsing script: %w", err)
	}
	return script, nil
}

func loadScript(path string) (Script, error) {
	if path == "" {
		return Script{}, errors.New("no script given, use --script")
	}
	file, err := os.Open(path)
	if err != nil {
		return Script{}, fmt.Errorf("error reading script: %w", err)
	}
	defer func() { _ = file.Close() }()
	return parseScript(file)
}

// replayResult is the outcome of one replayed step.
type replayResult struct {
	Label   string
	Stats   render.Stats
	Visible int
	State   view.State
}

// replay runs the script against the session, applying every step's commands
// to surf.
func replay(s *session, st view.State, script Script, surf render.Surface) (view.State, []replayResult, error) {
	steps := script.Steps
	if len(steps) == 0 || !steps[0].Load {
		steps = append([]Step{{Load: true}}, steps...)
	}

	results := make([]replayResult, 0, len(steps))
	for i, step := range steps {
		in, label, err := step.Input()
		if err != nil {
			return st, results, fmt.Errorf("step %d: %w", i+1, err)
		}
		var cmds []render.Command
		st, cmds = s.handler.Handle(s.store, st, in)
		surf.Apply(cmds)
		results = append(results, replayResult{
			Label:   label,
			Stats:   render.Count(cmds),
			Visible: len(st.Rendered),
			State:   st,
		})
	}
	return st, results, nil
}

func writeReplayTable(w io.Writer, results []replayResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Step", "Input", "Enter", "Update", "Exit", "Visible", "Overlaps", "Tooltip"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range results {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Label,
			strconv.Itoa(r.Stats.Entered),
			strconv.Itoa(r.Stats.Updated),
			strconv.Itoa(r.Stats.Exited),
			strconv.Itoa(r.Visible),
			strconv.Itoa(r.State.Residual),
			strconv.FormatFloat(r.State.Tooltip.Opacity, 'f', 2, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func runReplay(ctx context.Context, opts runOptions, out io.Writer) error {
	script, err := loadScript(opts.Script)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	surf := render.NewSVGSurface(s.cfg)
	st, results, err := replay(s, initialState(s, opts), script, surf)
	if err != nil {
		return err
	}
	if err := writeReplayTable(out, results); err != nil {
		return err
	}
	if ev, ok := s.handler.DetailEvent(s.store, st); ok {
		fmt.Fprintf(out, "Open detail: %s, %s (%s)\n", ev.Description, ev.DateString(), ev.Country)
	}

	if opts.Output == "" {
		return nil
	}
	surf.SetFrame(s.handler.Frame(s.store, st))
	surf.SetTooltip(st.Tooltip.View())
	if err := writeSVG(surf, opts.Output); err != nil {
		return err
	}
	fmt.Fprintf(out, "Final state written to %s\n", opts.Output)
	return nil
}
