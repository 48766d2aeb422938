// Package layout assigns label offsets so that labels on the same side of the
// timeline axis never overlap.
//
// Every label starts at a base distance from its anchor. Labels are then
// compared pairwise within their side, ordered by anchor position with the
// event index as tie-breaker; whenever two boxes overlap, the later label is
// pushed away from the axis in whole steps. The fixed-point strategy moves it
// just past the box it hit and repeats until it clears every earlier one. The
// single-pass strategy compares each pair exactly once, one step per overlap.
package layout

import (
	"math"
	"sort"

	"github.com/dbitech/timeline2svg/internal/config"
	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/logx"
)

// Point is a screen-space coordinate.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned rectangle in screen space (y grows downwards).
type Box struct {
	Left, Right, Top, Bottom float64
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// Overlaps reports whether two boxes intersect. Touching edges count as overlap.
func (b Box) Overlaps(o Box) bool {
	return !(b.Right < o.Left || b.Left > o.Right || b.Bottom < o.Top || b.Top > o.Bottom)
}

// AnchorFunc returns the along-axis screen coordinate of an event.
type AnchorFunc func(event.Event) float64

// Options controls the engine. FromConfig fills it from a config.Config.
type Options struct {
	Orientation  string  // config.Horizontal or config.Vertical
	Axis         float64 // across-axis coordinate of the timeline line
	BaseDistance float64
	Step         float64
	Strategy     string // config.FixedPoint or config.SinglePass
	MaxPasses    int
	Padding      float64
	FontSize     float64
	LinePadding  float64
	WrapWidth    int
	ShowDates    bool
}

// OptionsFromConfig extracts engine options from the configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Orientation:  cfg.Layout.Orientation,
		Axis:         cfg.AxisPosition(),
		BaseDistance: cfg.Labels.BaseDistance,
		Step:         cfg.Labels.Step,
		Strategy:     cfg.Labels.Strategy,
		MaxPasses:    cfg.Labels.MaxPasses,
		Padding:      cfg.Labels.Padding,
		FontSize:     cfg.Font.Size,
		LinePadding:  cfg.Labels.LinePadding,
		WrapWidth:    cfg.Labels.WrapWidth,
		ShowDates:    cfg.Labels.ShowDates,
	}
}

// Placement is the computed position of one event's marker and label.
type Placement struct {
	Key        event.Key
	Index      int // store index of the event
	Side       event.Side
	Anchor     Point   // marker position on the axis
	Offset     float64 // signed across-axis distance from anchor to the label's near edge
	Box        Box     // padded label bounds
	Lines      []string
	LineHeight float64
}

// LabelOrigin returns the point where the label's near edge meets its centre line.
func (p Placement) LabelOrigin(orientation string) Point {
	if orientation == config.Vertical {
		return Point{X: p.Anchor.X + p.Offset, Y: p.Anchor.Y}
	}
	return Point{X: p.Anchor.X, Y: p.Anchor.Y + p.Offset}
}

// Result is the outcome of one layout run.
type Result struct {
	Placements []Placement // in visible order
	Residual   [][2]event.Key
	Passes     int
	index      map[event.Key]int
}

// Get returns the placement for key.
func (r Result) Get(k event.Key) (Placement, bool) {
	i, ok := r.index[k]
	if !ok {
		return Placement{}, false
	}
	return r.Placements[i], true
}

// Offsets returns the key -> offset mapping.
func (r Result) Offsets() map[event.Key]float64 {
	out := make(map[event.Key]float64, len(r.Placements))
	for _, p := range r.Placements {
		out[p.Key] = p.Offset
	}
	return out
}

// Engine computes label layouts. It holds no per-run state.
type Engine struct {
	opts     Options
	measurer Measurer
}

// NewEngine returns an engine. A nil measurer uses HeuristicMeasurer.
func NewEngine(opts Options, measurer Measurer) *Engine {
	if measurer == nil {
		measurer = HeuristicMeasurer{}
	}
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = 1000
	}
	if opts.Step <= 0 {
		opts.Step = 1
	}
	return &Engine{opts: opts, measurer: measurer}
}

// FromConfig builds an engine with the measurer named in cfg.Font.Measure.
func FromConfig(cfg config.Config) (*Engine, error) {
	var m Measurer = HeuristicMeasurer{}
	if cfg.Font.Measure == config.MeasureGoRegular {
		fm, err := NewFontMeasurer()
		if err != nil {
			return nil, err
		}
		m = fm
	}
	return NewEngine(OptionsFromConfig(cfg), m), nil
}

// Options returns the engine's options.
func (e *Engine) Options() Options {
	return e.opts
}

// label is the working state of one placement during a run.
type label struct {
	along       float64
	sign        int
	offset      float64
	alongSize   float64 // extent parallel to the axis
	acrossSize  float64 // extent perpendicular to the axis
	placementAt int
}

// box computes the padded screen box for the label's current offset.
func (e *Engine) box(l label) Box {
	pad := e.opts.Padding
	nearEdge := e.opts.Axis + l.offset
	acrossLo, acrossHi := nearEdge, nearEdge+l.acrossSize
	if l.sign < 0 {
		acrossLo, acrossHi = nearEdge-l.acrossSize, nearEdge
	}
	alongLo, alongHi := l.along-l.alongSize/2, l.along+l.alongSize/2

	if e.opts.Orientation == config.Vertical {
		return Box{Left: acrossLo - pad, Right: acrossHi + pad, Top: alongLo - pad, Bottom: alongHi + pad}
	}
	return Box{Left: alongLo - pad, Right: alongHi + pad, Top: acrossLo - pad, Bottom: acrossHi + pad}
}

// Layout places a label for each visible event. Output is deterministic for
// identical input.
func (e *Engine) Layout(visible []event.Event, anchor AnchorFunc, side event.SideFunc) Result {
	logx.Debugf("=== Label Layout (%d events, strategy %s) ===", len(visible), e.opts.Strategy)

	res := Result{
		Placements: make([]Placement, len(visible)),
		index:      make(map[event.Key]int, len(visible)),
	}
	labels := make([]label, len(visible))
	groups := make(map[int][]int)

	for i, ev := range visible {
		s := side(ev)
		sign := event.SignAfter
		if s.Sign < 0 {
			sign = event.SignBefore
		}
		lines := labelLines(ev.Description, ev.DateString(), e.opts.WrapWidth, e.opts.ShowDates)
		width, height, lineHeight := measureLines(e.measurer, lines, e.opts.FontSize, e.opts.LinePadding)

		l := label{
			along:       anchor(ev),
			sign:        sign,
			offset:      float64(sign) * e.opts.BaseDistance,
			alongSize:   width,
			acrossSize:  height,
			placementAt: i,
		}
		if e.opts.Orientation == config.Vertical {
			l.alongSize, l.acrossSize = height, width
		}
		labels[i] = l
		groups[sign] = append(groups[sign], i)

		res.Placements[i] = Placement{
			Key:        ev.Key(),
			Index:      ev.Index,
			Side:       s,
			Lines:      lines,
			LineHeight: lineHeight,
		}
		res.index[ev.Key()] = i
	}

	for _, sign := range []int{event.SignBefore, event.SignAfter} {
		order := groups[sign]
		sort.SliceStable(order, func(a, b int) bool {
			la, lb := labels[order[a]], labels[order[b]]
			if la.along != lb.along {
				return la.along < lb.along
			}
			return visible[order[a]].Index < visible[order[b]].Index
		})
		passes := e.resolve(labels, order)
		if passes > res.Passes {
			res.Passes = passes
		}
		res.Residual = append(res.Residual, e.residual(labels, order, visible)...)
	}

	for i, l := range labels {
		p := &res.Placements[i]
		p.Offset = l.offset
		p.Box = e.box(l)
		if e.opts.Orientation == config.Vertical {
			p.Anchor = Point{X: e.opts.Axis, Y: l.along}
		} else {
			p.Anchor = Point{X: l.along, Y: e.opts.Axis}
		}
	}

	if len(res.Residual) > 0 {
		logx.Debugf("%d label pairs still overlap after %d passes", len(res.Residual), res.Passes)
	}
	logx.Debugf("=== End Label Layout (%d passes) ===", res.Passes)
	return res
}

// resolve settles one side group in order and returns the largest number of
// passes any label needed. Earlier labels are final when a later one moves, so
// each label only ever moves outward past its settled neighbours. Zero or one
// label needs no passes.
func (e *Engine) resolve(labels []label, order []int) int {
	if len(order) < 2 {
		return 0
	}
	maxPasses := e.opts.MaxPasses
	if e.opts.Strategy == config.SinglePass {
		maxPasses = 1
	}

	passes := 0
	for b := 1; b < len(order); b++ {
		j := order[b]
		for pass := 1; pass <= maxPasses; pass++ {
			moved := false
			for a := 0; a < b; a++ {
				i := order[a]
				if !e.box(labels[i]).Overlaps(e.box(labels[j])) {
					continue
				}
				labels[j].offset += float64(labels[j].sign) * e.opts.Step * float64(e.steps(labels[i], labels[j]))
				moved = true
			}
			if pass > passes {
				passes = pass
			}
			if !moved {
				break
			}
		}
		logx.Debugf("Label %d settled at offset %.1f", j, labels[j].offset)
	}
	return passes
}

// steps returns how many steps moving label b outward takes to clear the
// overlapping label a. Single-pass always moves one step; fixed-point jumps
// the whole distance so a stack of n labels settles in a few passes.
func (e *Engine) steps(a, b label) int {
	if e.opts.Strategy == config.SinglePass {
		return 1
	}
	aLo, aHi := e.across(e.box(a))
	bLo, bHi := e.across(e.box(b))
	overlap := aHi - bLo
	if b.sign < 0 {
		overlap = bHi - aLo
	}
	if overlap < 0 {
		return 1
	}
	// touching counts as overlap, so clear by strictly more than the overlap
	return int(math.Floor(overlap/e.opts.Step)) + 1
}

// across returns the box's extent perpendicular to the axis.
func (e *Engine) across(b Box) (lo, hi float64) {
	if e.opts.Orientation == config.Vertical {
		return b.Left, b.Right
	}
	return b.Top, b.Bottom
}

// residual lists the pairs in one group that still overlap.
func (e *Engine) residual(labels []label, order []int, visible []event.Event) [][2]event.Key {
	var out [][2]event.Key
	for b := 1; b < len(order); b++ {
		for a := 0; a < b; a++ {
			i, j := order[a], order[b]
			if e.box(labels[i]).Overlaps(e.box(labels[j])) {
				out = append(out, [2]event.Key{visible[i].Key(), visible[j].Key()})
			}
		}
	}
	return out
}
