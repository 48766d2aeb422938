package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dbitech/timeline2svg/internal/render"
	"github.com/dbitech/timeline2svg/internal/timescale"
	"github.com/dbitech/timeline2svg/internal/view"
	"github.com/spf13/cobra"
)

// renderCmd draws the timeline as SVG.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the timeline to an SVG file.",
	Long: `Load events, filter them, lay out their labels and write an SVG document.

Labels on the same side of the axis are stacked away from it until no two
overlap. Each event element carries a data-key attribute with its stable
identity and, when the country is a known one, a data-country-code attribute.

Examples:
  # Render all events with the default style
  timeline2svg render --data events.json

  # Only Benin, vertical book layout, custom output name
  timeline2svg render --data events.json --filter Benin --orientation vertical -o benin.svg

  # Zoom into the middle of the axis
  timeline2svg render --data events.csv --config style.yaml --zoom 3 --pan -200`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runRender(rootCtx, optionsFromViper())
	},
}

// initialState is the handler's initial state zoomed and panned per opts.
func initialState(s *session, opts runOptions) view.State {
	st := s.handler.Initial()
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	if zoom == 1 && opts.Pan == 0 {
		return st
	}
	centre := s.cfg.AxisStart() + s.cfg.AxisLength(s.store.Len())/2
	st.Transform = timescale.Identity().
		ZoomAt(zoom, centre, s.cfg.Scale.MinZoom, s.cfg.Scale.MaxZoom).
		Pan(opts.Pan)
	return st
}

// paint brings a fresh surface to the given state.
func paint(s *session, st view.State, cmds []render.Command) *render.SVGSurface {
	surf := render.NewSVGSurface(s.cfg)
	surf.SetFrame(s.handler.Frame(s.store, st))
	surf.Apply(cmds)
	surf.SetTooltip(st.Tooltip.View())
	return surf
}

func writeSVG(surf *render.SVGSurface, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	defer func() { _ = file.Close() }()
	if _, err := surf.WriteTo(file); err != nil {
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	return nil
}

func runRender(ctx context.Context, opts runOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	st, cmds := s.handler.Handle(s.store, initialState(s, opts), view.Load{})
	if st.Residual > 0 {
		fmt.Fprintf(os.Stderr, "%d label pairs still overlap\n", st.Residual)
	}

	path := outputFilename(opts.Data, opts.Output)
	if err := writeSVG(paint(s, st, cmds), path); err != nil {
		return err
	}
	fmt.Printf("Timeline SVG generated successfully: %s (%d of %d events shown)\n", path, len(st.Rendered), s.store.Len())
	return nil
}
