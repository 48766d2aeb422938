// Package render reconciles laid-out events against what a surface currently
// shows and drives the surface with keyed enter, update and exit commands.
package render

import (
	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/layout"
)

// CommandKind is the reconciliation outcome for one element.
type CommandKind int

// Reconciliation outcomes.
const (
	Enter CommandKind = iota
	Update
	Exit
)

func (k CommandKind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Update:
		return "update"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Renderable is what a surface draws for one event: the placement computed by
// the layout engine, referenced by event key.
type Renderable struct {
	layout.Placement
	CountryCode string // ISO 3166-1 alpha-2, "" when unknown
}

// Command tells a surface to create, move or remove the element for Key.
// For Exit, Item is the element as it was last rendered.
type Command struct {
	Kind CommandKind
	Key  event.Key
	Item Renderable
}

// Surface is a rendering front end driven by commands.
type Surface interface {
	Apply(cmds []Command)
}

// Stats counts commands by kind.
type Stats struct {
	Entered, Updated, Exited int
}

// Count tallies a command list.
func Count(cmds []Command) Stats {
	var s Stats
	for _, c := range cmds {
		switch c.Kind {
		case Enter:
			s.Entered++
		case Update:
			s.Updated++
		case Exit:
			s.Exited++
		}
	}
	return s
}

// Reconcile binds the visible events to the current renderables by key.
// Events without a current element are entered, events with one are updated,
// and current elements whose event is no longer visible are exited.
//
// Commands are ordered exits first (in current order), then enters and
// updates in visible order. The returned renderables are in visible order.
// Visible events missing from res are not drawn; if already shown they exit.
func Reconcile(visible []event.Event, res layout.Result, current []Renderable) ([]Renderable, []Command) {
	wanted := make(map[event.Key]bool, len(visible))
	for _, ev := range visible {
		if _, ok := res.Get(ev.Key()); ok {
			wanted[ev.Key()] = true
		}
	}
	have := make(map[event.Key]bool, len(current))
	for _, r := range current {
		have[r.Key] = true
	}

	var cmds []Command
	for _, r := range current {
		if !wanted[r.Key] {
			cmds = append(cmds, Command{Kind: Exit, Key: r.Key, Item: r})
		}
	}

	next := make([]Renderable, 0, len(visible))
	for _, ev := range visible {
		p, ok := res.Get(ev.Key())
		if !ok {
			continue
		}
		item := Renderable{Placement: p, CountryCode: ev.CountryCode()}
		kind := Enter
		if have[p.Key] {
			kind = Update
		}
		cmds = append(cmds, Command{Kind: kind, Key: p.Key, Item: item})
		next = append(next, item)
	}
	return next, cmds
}

// HitTest returns the topmost renderable whose marker (within radius of its
// anchor) or label box contains pt.
func HitTest(items []Renderable, pt layout.Point, radius float64) (event.Key, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		dx, dy := pt.X-it.Anchor.X, pt.Y-it.Anchor.Y
		if dx*dx+dy*dy <= radius*radius {
			return it.Key, true
		}
		b := it.Box
		if pt.X >= b.Left && pt.X <= b.Right && pt.Y >= b.Top && pt.Y <= b.Bottom {
			return it.Key, true
		}
	}
	return event.Key{}, false
}
