package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dbitech/timeline2svg/internal/config"
	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/layout"
	"github.com/dbitech/timeline2svg/internal/logx"
	"github.com/dbitech/timeline2svg/internal/timescale"
)

// Frame is the static part of the drawing: canvas, axis line and ticks.
type Frame struct {
	Width, Height int
	Axis          float64 // across-axis coordinate of the timeline line
	From, To      float64 // along-axis extent of the timeline line
	Ticks         []timescale.Tick
}

// TooltipView is the tooltip as the surface should show it. An Opacity of
// zero hides it.
type TooltipView struct {
	Key     event.Key
	Text    string // lines separated by <br/>
	At      layout.Point
	Opacity float64
}

// SVGSurface is a retained-mode surface. It keeps one element per event key,
// updated by Apply, and serialises the current state with WriteTo.
type SVGSurface struct {
	cfg     config.Config
	frame   Frame
	order   []event.Key
	items   map[event.Key]Renderable
	tooltip TooltipView
}

// NewSVGSurface returns an empty surface styled by cfg.
func NewSVGSurface(cfg config.Config) *SVGSurface {
	return &SVGSurface{
		cfg:   cfg,
		items: make(map[event.Key]Renderable),
	}
}

// SetFrame replaces the canvas, axis and ticks.
func (s *SVGSurface) SetFrame(f Frame) {
	s.frame = f
}

// SetTooltip replaces the tooltip.
func (s *SVGSurface) SetTooltip(t TooltipView) {
	s.tooltip = t
}

// Apply executes reconciliation commands against the retained elements.
func (s *SVGSurface) Apply(cmds []Command) {
	for _, c := range cmds {
		switch c.Kind {
		case Exit:
			if _, ok := s.items[c.Key]; !ok {
				logx.Debugf("exit for unknown element %s", c.Key)
				continue
			}
			delete(s.items, c.Key)
			for i, k := range s.order {
				if k == c.Key {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		case Enter, Update:
			if _, ok := s.items[c.Key]; !ok {
				s.order = append(s.order, c.Key)
			}
			s.items[c.Key] = c.Item
		}
	}
}

// Len returns the number of retained elements.
func (s *SVGSurface) Len() int {
	return len(s.order)
}

// Element returns the retained element for key.
func (s *SVGSurface) Element(k event.Key) (Renderable, bool) {
	r, ok := s.items[k]
	return r, ok
}

// WriteTo writes the SVG document for the current state.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// String returns the SVG document for the current state.
func (s *SVGSurface) String() string {
	cfg := s.cfg
	var svg strings.Builder

	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.title-text { font-family: %s; font-size: %spx; fill: %s; }
.date-text { font-family: %s; font-size: %spx; fill: %s; }
.axis-label { font-family: %s; font-size: %spx; fill: %s; }
.tooltip-text { font-family: %s; font-size: %spx; fill: %s; }
</style>
</defs>
`, s.frame.Width, s.frame.Height, cfg.Colors.Background,
		cfg.Font.Family, px(cfg.Font.Size), cfg.Colors.Text,
		cfg.Font.Family, px(cfg.Font.Size-1), cfg.Colors.Notes,
		cfg.Font.Family, px(cfg.Font.Size-2), cfg.Colors.Axis,
		cfg.Font.Family, px(cfg.Font.Size), cfg.Colors.Text)

	s.drawAxis(&svg)
	for _, k := range s.order {
		s.drawElement(&svg, s.items[k])
	}
	s.drawTooltip(&svg)

	svg.WriteString("</svg>\n")
	return svg.String()
}

func (s *SVGSurface) vertical() bool {
	return s.cfg.Layout.Orientation == config.Vertical
}

// point turns (along, across) into screen coordinates.
func (s *SVGSurface) point(along, across float64) (x, y float64) {
	if s.vertical() {
		return across, along
	}
	return along, across
}

func (s *SVGSurface) drawAxis(svg *strings.Builder) {
	f := s.frame
	x1, y1 := s.point(f.From, f.Axis)
	x2, y2 := s.point(f.To, f.Axis)
	fmt.Fprintf(svg, `<line class="axis" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>`+"\n",
		px(x1), px(y1), px(x2), px(y2), s.cfg.Colors.Axis)

	for _, t := range f.Ticks {
		if t.Position < f.From || t.Position > f.To {
			continue
		}
		ax, ay := s.point(t.Position, f.Axis-5)
		bx, by := s.point(t.Position, f.Axis+5)
		fmt.Fprintf(svg, `<line class="tick" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			px(ax), px(ay), px(bx), px(by), s.cfg.Colors.Axis)

		if s.vertical() {
			lx, ly := s.point(t.Position, f.Axis-8)
			fmt.Fprintf(svg, `<text class="axis-label" x="%s" y="%s" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
				px(lx), px(ly), escapeXML(t.Label))
		} else {
			lx, ly := s.point(t.Position, f.Axis+18)
			fmt.Fprintf(svg, `<text class="axis-label" x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
				px(lx), px(ly), escapeXML(t.Label))
		}
	}
}

// drawElement draws the callout line, the marker and the label of one event.
func (s *SVGSurface) drawElement(svg *strings.Builder, r Renderable) {
	cfg := s.cfg
	origin := r.LabelOrigin(cfg.Layout.Orientation)

	fmt.Fprintf(svg, `<g class="event" data-key="%s" data-side="%s"`, escapeXML(r.Key.String()), escapeXML(r.Side.Name))
	if r.CountryCode != "" {
		fmt.Fprintf(svg, ` data-country-code="%s"`, r.CountryCode)
	}
	svg.WriteString(">\n")

	fmt.Fprintf(svg, `<line class="callout" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
		px(r.Anchor.X), px(r.Anchor.Y), px(origin.X), px(origin.Y), cfg.Colors.Axis)

	drawEventMarker(svg, r.Anchor.X, r.Anchor.Y, cfg.EventMarker)

	x, textAnchor := r.Anchor.X, "middle"
	if s.vertical() {
		if r.Side.Sign < 0 {
			x, textAnchor = r.Box.Right-cfg.Labels.Padding, "end"
		} else {
			x, textAnchor = r.Box.Left+cfg.Labels.Padding, "start"
		}
	}
	top := r.Box.Top + cfg.Labels.Padding
	for i, line := range r.Lines {
		class := "title-text"
		if cfg.Labels.ShowDates && i == len(r.Lines)-1 {
			class = "date-text"
		}
		baseline := top + float64(i)*(r.LineHeight+cfg.Labels.LinePadding) + r.LineHeight*0.75
		fmt.Fprintf(svg, `<text class="%s" x="%s" y="%s" text-anchor="%s">%s</text>`+"\n",
			class, px(x), px(baseline), textAnchor, escapeXML(line))
	}
	svg.WriteString("</g>\n")
}

func (s *SVGSurface) drawTooltip(svg *strings.Builder) {
	t := s.tooltip
	if t.Opacity <= 0 || t.Text == "" {
		return
	}
	lines := strings.Split(t.Text, "<br/>")
	size := s.cfg.Font.Size
	width := 0.0
	for _, l := range lines {
		width = math.Max(width, float64(len([]rune(l)))*size*0.6)
	}
	width += 2 * s.cfg.Labels.Padding
	height := float64(len(lines))*size*1.4 + 2*s.cfg.Labels.Padding

	fmt.Fprintf(svg, `<g class="tooltip" data-key="%s" opacity="%s">`+"\n", escapeXML(t.Key.String()), px(t.Opacity))
	fmt.Fprintf(svg, `<rect x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s"/>`+"\n",
		px(t.At.X), px(t.At.Y), px(width), px(height), s.cfg.Colors.Tooltip)
	for i, l := range lines {
		fmt.Fprintf(svg, `<text class="tooltip-text" x="%s" y="%s">%s</text>`+"\n",
			px(t.At.X+s.cfg.Labels.Padding), px(t.At.Y+s.cfg.Labels.Padding+float64(i+1)*size*1.4-size*0.4), escapeXML(l))
	}
	svg.WriteString("</g>\n")
}

// drawEventMarker draws a marker centred on (x, y). Size is the radius for
// circles and the half side for the other shapes; unknown shapes fall back to
// a circle.
func drawEventMarker(svg *strings.Builder, x, y float64, m config.MarkerConfig) {
	size := float64(m.Size)
	style := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%d"`, m.FillColor, m.StrokeColor, m.StrokeWidth)

	switch strings.ToLower(m.Shape) {
	case "square":
		fmt.Fprintf(svg, `<rect class="marker" x="%s" y="%s" width="%s" height="%s" %s/>`+"\n",
			px(x-size), px(y-size), px(size*2), px(size*2), style)
	case "diamond":
		fmt.Fprintf(svg, `<polygon class="marker" points="%s,%s %s,%s %s,%s %s,%s" %s/>`+"\n",
			px(x), px(y-size),
			px(x+size), px(y),
			px(x), px(y+size),
			px(x-size), px(y),
			style)
	case "triangle":
		// taller than wide so it reads at small sizes
		height := size * 1.5
		fmt.Fprintf(svg, `<polygon class="marker" points="%s,%s %s,%s %s,%s" %s/>`+"\n",
			px(x), px(y-height),
			px(x-size), px(y+height/2),
			px(x+size), px(y+height/2),
			style)
	default:
		fmt.Fprintf(svg, `<circle class="marker" cx="%s" cy="%s" r="%s" %s/>`+"\n",
			px(x), px(y), px(size), style)
	}
}

// escapeXML replaces the XML special characters &, <, >, " and ' with entities.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// px formats a coordinate with at most two decimals.
func px(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
