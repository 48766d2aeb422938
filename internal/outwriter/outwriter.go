package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/xlab/treeprint"
)

// Options controls how a report is written.
type Options struct {
	Format     Format
	UseColors  bool
	Width      int    // terminal width override, 0 detects
	OutputFile string // "" writes to stdout; required for parquet
}

// ErrParquetNeedsFile is returned when parquet output is requested without a file.
var ErrParquetNeedsFile = errors.New("parquet output requires an output file")

// WriteReport writes the report to opts.OutputFile, or stdout when it is empty.
func WriteReport(r Report, opts Options) error {
	if opts.Format == ParquetOut {
		if opts.OutputFile == "" {
			return ErrParquetNeedsFile
		}
		if err := WriteParquet(r.Rows, opts.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote %d placements to %s\n", len(r.Rows), opts.OutputFile)
		return nil
	}
	return writeWithFile(opts.OutputFile, func(w io.Writer) error {
		return Write(w, r, opts)
	}, fmt.Sprintf("Wrote %d placements", len(r.Rows)))
}

// Write writes the report to w in a streamable format.
func Write(w io.Writer, r Report, opts Options) error {
	switch opts.Format {
	case JSONOut:
		if err := writeJSON(w, r); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case CSVOut:
		if err := writeCSV(w, r); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case TreeOut:
		_, err := io.WriteString(w, treeString(r))
		return err
	case ParquetOut:
		return ErrParquetNeedsFile
	default:
		return writeTable(w, r, opts)
	}
	return nil
}

// writeWithFile opens filePath (stdout when empty), runs writer on it and closes it.
func writeWithFile(filePath string, writer func(io.Writer) error, successMsg string) error {
	file := os.Stdout
	if filePath != "" {
		f, err := os.Create(filePath)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		file = f
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, filePath)
	}
	return nil
}

func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, r Report) error {
	csvWriter := csv.NewWriter(w)
	header := []string{
		"key", "date", "description", "country", "country_code", "category",
		"side", "sign", "anchor_x", "anchor_y", "offset",
		"left", "right", "top", "bottom", "lines",
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range r.Rows {
		rec := []string{
			row.Key, row.Date, row.Description, row.Country, row.CountryCode, row.Category,
			row.Side, strconv.Itoa(row.Sign), num(row.AnchorX), num(row.AnchorY), num(row.Offset),
			num(row.Left), num(row.Right), num(row.Top), num(row.Bottom), strconv.Itoa(row.Lines),
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// writeTable writes the human-readable table and a summary line.
func writeTable(w io.Writer, r Report, opts Options) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Date", "Event", "Side", "Code", "Anchor", "Offset"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	before, after := fmt.Sprint, fmt.Sprint
	if opts.UseColors {
		before = color.New(color.FgCyan).SprintFunc()
		after = color.New(color.FgGreen).SprintFunc()
	}

	descWidth := maxDescriptionWidth(opts.Width)
	var data [][]string
	for i, row := range r.Rows {
		side := after(row.Side)
		if row.Sign < 0 {
			side = before(row.Side)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			row.Date,
			truncate(row.Description, descWidth),
			side,
			row.CountryCode,
			num(row.Along),
			num(row.Offset),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d placements from %s (%s, %d passes, %d residual overlaps)\n",
		len(r.Rows), r.Source, r.Strategy, r.Passes, r.Residual)
	return err
}

// treeString groups placements by side, before sides first.
func treeString(r Report) string {
	root := treeprint.New()
	branches := make(map[string]treeprint.Tree)
	for _, dir := range []int{event.SignBefore, event.SignAfter} {
		for _, row := range r.Rows {
			if row.Sign != dir || branches[row.Side] != nil {
				continue
			}
			name := "after"
			if dir == event.SignBefore {
				name = "before"
			}
			branches[row.Side] = root.AddBranch(fmt.Sprintf("%s (%s)", row.Side, name))
		}
	}
	for _, row := range r.Rows {
		if b := branches[row.Side]; b != nil {
			b.AddNode(fmt.Sprintf("%s %s [offset %s]", row.Date, row.Description, num(row.Offset)))
		}
	}
	return root.String()
}
