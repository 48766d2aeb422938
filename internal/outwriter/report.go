// Package outwriter writes label layout reports in the supported formats.
package outwriter

import (
	"fmt"
	"strings"

	"github.com/dbitech/timeline2svg/internal/config"
	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/layout"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	TextOut    Format = "text"
	JSONOut    Format = "json"
	CSVOut     Format = "csv"
	TreeOut    Format = "tree"
	ParquetOut Format = "parquet"
)

var formats = []Format{TextOut, JSONOut, CSVOut, TreeOut, ParquetOut}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(formats))
	for i, known := range formats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown format %q (expected one of %s)", s, strings.Join(names, ", "))
}

// Row is one placement as reported.
type Row struct {
	Key         string  `json:"key"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code,omitempty"`
	Category    string  `json:"category,omitempty"`
	Side        string  `json:"side"`
	Sign        int     `json:"sign"`
	AnchorX     float64 `json:"anchor_x"`
	AnchorY     float64 `json:"anchor_y"`
	Along       float64 `json:"along"` // anchor coordinate on the time axis
	Offset      float64 `json:"offset"`
	Left        float64 `json:"left"`
	Right       float64 `json:"right"`
	Top         float64 `json:"top"`
	Bottom      float64 `json:"bottom"`
	Lines       int     `json:"lines"`
}

// Report is the result of one layout run over a store.
type Report struct {
	Source   string `json:"source"`
	Strategy string `json:"strategy"`
	Passes   int    `json:"passes"`
	Residual int    `json:"residual_overlaps"`
	Rows     []Row  `json:"placements"`
}

// NewReport builds a report from a layout result computed with opts.
// Placements whose event is not in the store are left out.
func NewReport(store *event.Store, res layout.Result, opts layout.Options) Report {
	r := Report{
		Source:   store.Source(),
		Strategy: opts.Strategy,
		Passes:   res.Passes,
		Residual: len(res.Residual),
		Rows:     make([]Row, 0, len(res.Placements)),
	}
	for _, p := range res.Placements {
		ev, ok := store.Lookup(p.Key)
		if !ok {
			continue
		}
		along := p.Anchor.X
		if opts.Orientation == config.Vertical {
			along = p.Anchor.Y
		}
		r.Rows = append(r.Rows, Row{
			Key:         p.Key.String(),
			Date:        ev.DateString(),
			Description: ev.Description,
			Country:     ev.Country,
			CountryCode: ev.CountryCode(),
			Category:    ev.Category,
			Side:        p.Side.Name,
			Sign:        p.Side.Sign,
			AnchorX:     p.Anchor.X,
			AnchorY:     p.Anchor.Y,
			Along:       along,
			Offset:      p.Offset,
			Left:        p.Box.Left,
			Right:       p.Box.Right,
			Top:         p.Box.Top,
			Bottom:      p.Box.Bottom,
			Lines:       len(p.Lines),
		})
	}
	return r
}
