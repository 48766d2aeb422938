package cmd

import (
	"context"

	"github.com/dbitech/timeline2svg/internal/outwriter"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// layoutCmd prints the computed placements.
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the computed label placements.",
	Long: `Run the label layout and report where every visible event and its label end up.

The report lists the anchor position on the axis, the signed offset of the
label from it and the padded label box. The summary shows how many passes the
overlap resolution needed and how many pairs still overlap.

Examples:
  # Table in the terminal
  timeline2svg layout --data events.json

  # Grouped by side
  timeline2svg layout --data events.json --format tree

  # Compare strategies
  timeline2svg layout --data events.json --strategy single-pass --format json

  # Keep a columnar copy
  timeline2svg layout --data events.json --format parquet --output-file placements.parquet`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runLayout(rootCtx, optionsFromViper())
	},
}

func runLayout(ctx context.Context, opts runOptions) error {
	format, err := outwriter.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	st := initialState(s, opts)
	_, res := s.handler.Layout(s.store, st)
	engine := s.handler.Options()
	report := outwriter.NewReport(s.store, res, engine)

	return outwriter.WriteReport(report, outwriter.Options{
		Format:     format,
		UseColors:  !color.NoColor,
		Width:      opts.Width,
		OutputFile: opts.OutputFile,
	})
}
