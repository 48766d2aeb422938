// Package view holds the interactive state of a timeline and the handler that
// turns user input into a new state plus render commands.
//
// Handle is a function of (store, state, input): it never keeps state of its
// own, and every call re-derives the visible set, the scale, the layout and
// the reconciliation from the state it is given.
package view

import (
	"time"

	"github.com/dbitech/timeline2svg/internal/config"
	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/filter"
	"github.com/dbitech/timeline2svg/internal/layout"
	"github.com/dbitech/timeline2svg/internal/logx"
	"github.com/dbitech/timeline2svg/internal/render"
	"github.com/dbitech/timeline2svg/internal/timescale"
)

// State is everything that changes while a timeline is being explored.
type State struct {
	Selection filter.Predicate
	Transform timescale.Transform
	Rendered  []render.Renderable // what the surface currently shows, in visible order
	Tooltip   Tooltip
	Detail    event.Key // event opened by a click
	HasDetail bool
	Residual  int // label pairs left overlapping by the last layout
}

// Input is a user or timer event fed to Handle.
type Input interface {
	input()
}

type (
	// Load draws the store for the first time.
	Load struct{}
	// FilterChanged replaces the selection ("all" or comma-separated values).
	FilterChanged struct{ Selection string }
	// Zoom scales the view by Factor around Focus, an along-axis screen coordinate.
	Zoom struct{ Factor, Focus float64 }
	// Pan shifts the view by Delta pixels along the axis.
	Pan struct{ Delta float64 }
	// ResetZoom returns to the identity transform.
	ResetZoom struct{}
	// Hover points at an element. Key wins over At when set.
	Hover struct {
		At  layout.Point
		Key event.Key
	}
	// Unhover leaves the hovered element.
	Unhover struct{}
	// Click opens the detail of an element. Key wins over At when set.
	Click struct {
		At  layout.Point
		Key event.Key
	}
	// Close dismisses the detail.
	Close struct{}
	// Tick advances animations by DT seconds.
	Tick struct{ DT float64 }
)

func (Load) input()          {}
func (FilterChanged) input() {}
func (Zoom) input()          {}
func (Pan) input()           {}
func (ResetZoom) input()     {}
func (Hover) input()         {}
func (Unhover) input()       {}
func (Click) input()         {}
func (Close) input()         {}
func (Tick) input()          {}

// Handler maps inputs to state transitions for one configuration.
type Handler struct {
	cfg         config.Config
	engine      *layout.Engine
	fixedDomain bool
	start, end  time.Time
}

// NewHandler returns a handler for cfg.
func NewHandler(cfg config.Config) (*Handler, error) {
	engine, err := layout.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	start, end, ok, err := cfg.Domain()
	if err != nil {
		return nil, err
	}
	return &Handler{cfg: cfg, engine: engine, fixedDomain: ok, start: start, end: end}, nil
}

// Config returns the handler's configuration.
func (h *Handler) Config() config.Config {
	return h.cfg
}

// Options returns the layout engine's options.
func (h *Handler) Options() layout.Options {
	return h.engine.Options()
}

// Initial returns the state before the first Load.
func (h *Handler) Initial() State {
	return State{
		Selection: filter.Parse(h.cfg.Filter.Field, h.cfg.Filter.Selection),
		Transform: timescale.Identity(),
	}
}

// BaseScale returns the untransformed scale for store.
func (h *Handler) BaseScale(store *event.Store) timescale.Scale {
	from := h.cfg.AxisStart() + h.cfg.Layout.AxisBuffer
	to := h.cfg.AxisStart() + h.cfg.AxisLength(store.Len()) - h.cfg.Layout.AxisBuffer
	if h.fixedDomain {
		return timescale.New(h.start, h.end, from, to)
	}
	first, last, _ := store.Extent()
	return timescale.FromExtent(first, last, h.cfg.Scale.PadYears, from, to)
}

// Scale returns the scale for store under the state's transform.
func (h *Handler) Scale(store *event.Store, st State) timescale.Scale {
	return h.BaseScale(store).Rescale(st.Transform)
}

// Frame returns the static drawing parts for the state.
func (h *Handler) Frame(store *event.Store, st State) render.Frame {
	w, ht := h.cfg.CanvasSize(store.Len())
	from := h.cfg.AxisStart()
	return render.Frame{
		Width:  w,
		Height: ht,
		Axis:   h.cfg.AxisPosition(),
		From:   from,
		To:     from + h.cfg.AxisLength(store.Len()),
		Ticks:  h.Scale(store, st).Ticks(h.cfg.Scale.TickEveryYears),
	}
}

// Layout filters the store and lays out the visible events for the state.
func (h *Handler) Layout(store *event.Store, st State) ([]event.Event, layout.Result) {
	visible := filter.Apply(store.Events(), st.Selection)
	scale := h.Scale(store, st)
	sides := event.GroupSides(store, h.cfg.Sides.Field, h.cfg.Sides.Assign)
	res := h.engine.Layout(visible, func(ev event.Event) float64 { return scale.Position(ev.Date) }, sides)
	return visible, res
}

// Handle applies in to st and returns the new state and the commands that
// bring a surface from st.Rendered to the new state.
func (h *Handler) Handle(store *event.Store, st State, in Input) (State, []render.Command) {
	switch in := in.(type) {
	case Load:
		st.Transform = st.Transform.Clamp(h.cfg.Scale.MinZoom, h.cfg.Scale.MaxZoom)
	case FilterChanged:
		st.Selection = filter.Parse(st.Selection.Field, in.Selection)
		logx.Debugf("Filter changed to %s", st.Selection)
	case Zoom:
		st.Transform = st.Transform.ZoomAt(in.Factor, in.Focus, h.cfg.Scale.MinZoom, h.cfg.Scale.MaxZoom)
	case Pan:
		st.Transform = st.Transform.Pan(in.Delta)
	case ResetZoom:
		st.Transform = timescale.Identity()
	case Hover:
		st = h.hover(store, st, in)
	case Unhover:
		st = h.unhover(st)
	case Click:
		if k, ok := h.target(st, in.Key, in.At); ok {
			st.Detail, st.HasDetail = k, true
		}
	case Close:
		st.Detail, st.HasDetail = event.Key{}, false
	case Tick:
		st.Tooltip = st.Tooltip.advance(in.DT)
	}

	visible, res := h.Layout(store, st)
	next, cmds := render.Reconcile(visible, res, st.Rendered)
	st.Rendered = next
	st.Residual = len(res.Residual)

	if st.Tooltip.Text != "" && !rendered(next, st.Tooltip.Key) {
		st = h.unhover(st)
	}
	if st.HasDetail && !rendered(next, st.Detail) {
		st.Detail, st.HasDetail = event.Key{}, false
	}
	return st, cmds
}

// DetailEvent returns the event opened by a click.
func (h *Handler) DetailEvent(store *event.Store, st State) (event.Event, bool) {
	if !st.HasDetail {
		return event.Event{}, false
	}
	return store.Lookup(st.Detail)
}

func (h *Handler) target(st State, k event.Key, at layout.Point) (event.Key, bool) {
	if k != (event.Key{}) {
		return k, rendered(st.Rendered, k)
	}
	return render.HitTest(st.Rendered, at, float64(h.cfg.EventMarker.Size))
}

func (h *Handler) hover(store *event.Store, st State, in Hover) State {
	k, ok := h.target(st, in.Key, in.At)
	if !ok {
		return st
	}
	ev, ok := store.Lookup(k)
	if !ok {
		return st
	}
	at := in.At
	if in.Key != (event.Key{}) {
		for _, r := range st.Rendered {
			if r.Key == k {
				at = r.Anchor
			}
		}
	}
	t := st.Tooltip
	t.Key = k
	t.Text = ev.TooltipText()
	t.At = layout.Point{X: at.X, Y: at.Y - tooltipLift}
	st.Tooltip = t.fadeTo(h.cfg.Tooltip.Opacity, h.cfg.Tooltip.FadeIn)
	return st
}

func (h *Handler) unhover(st State) State {
	if st.Tooltip.Text == "" || (st.Tooltip.To == 0 && st.Tooltip.Fading()) {
		return st
	}
	if h.cfg.Tooltip.FadeOut <= 0 {
		st.Tooltip = Tooltip{}
		return st
	}
	st.Tooltip = st.Tooltip.fadeTo(0, h.cfg.Tooltip.FadeOut)
	return st
}

func rendered(items []render.Renderable, k event.Key) bool {
	for _, r := range items {
		if r.Key == k {
			return true
		}
	}
	return false
}
