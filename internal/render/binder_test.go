package render

import (
	"testing"

	"github.com/dbitech/timeline2svg/internal/config"
	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/filter"
	"github.com/dbitech/timeline2svg/internal/layout"
	"github.com/dbitech/timeline2svg/internal/timescale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore() *event.Store {
	return event.NewStore("test", []event.Record{
		{Country: "Togo", Event: "Independence", Date: "1960-04-27"},
		{Country: "Benin", Event: "Independence", Date: "1960-08-01"},
		{Country: "Togo", Event: "Coup", Date: "1967-01-13"},
		{Country: "Benin", Event: "Constitution", Date: "1990-12-11"},
		{Country: "Benin-Togo", Event: "Border agreement", Date: "1991-02-19"},
	})
}

func runLayout(s *event.Store, visible []event.Event) layout.Result {
	first, last, _ := s.Extent()
	scale := timescale.FromExtent(first, last, 1, 100, 1100)
	opts := layout.OptionsFromConfig(config.Default())
	eng := layout.NewEngine(opts, nil)
	return eng.Layout(visible,
		func(ev event.Event) float64 { return scale.Position(ev.Date) },
		event.GroupSides(s, "country", nil))
}

func keysOf(cmds []Command, kind CommandKind) []event.Key {
	var out []event.Key
	for _, c := range cmds {
		if c.Kind == kind {
			out = append(out, c.Key)
		}
	}
	return out
}

func TestReconcileInitialEntersEverything(t *testing.T) {
	s := sampleStore()
	visible := s.Events()
	next, cmds := Reconcile(visible, runLayout(s, visible), nil)

	require.Len(t, next, len(visible))
	require.Len(t, cmds, len(visible))
	for i, c := range cmds {
		assert.Equal(t, Enter, c.Kind)
		assert.Equal(t, visible[i].Key(), c.Key)
	}
	assert.Equal(t, "TG", next[0].CountryCode)
	assert.Equal(t, "", next[4].CountryCode)
}

func TestReconcileTwiceYieldsOnlyUpdates(t *testing.T) {
	s := sampleStore()
	visible := s.Events()
	res := runLayout(s, visible)
	first, _ := Reconcile(visible, res, nil)
	second, cmds := Reconcile(visible, res, first)

	assert.Equal(t, first, second)
	assert.Equal(t, Stats{Updated: len(visible)}, Count(cmds))
}

func TestReconcileFilterChange(t *testing.T) {
	s := sampleStore()
	all := s.Events()
	current, _ := Reconcile(all, runLayout(s, all), nil)

	benin := filter.Apply(all, filter.Parse("country", "Benin"))
	next, cmds := Reconcile(benin, runLayout(s, benin), current)

	require.Len(t, next, 2)
	assert.Equal(t, Stats{Updated: 2, Exited: 3}, Count(cmds))
	assert.Equal(t, []event.Key{all[0].Key(), all[2].Key(), all[4].Key()}, keysOf(cmds, Exit))

	// Exits come before any enter or update.
	for i, c := range cmds {
		if i < 3 {
			assert.Equal(t, Exit, c.Kind)
		} else {
			assert.NotEqual(t, Exit, c.Kind)
		}
	}

	back, cmds := Reconcile(all, runLayout(s, all), next)
	require.Len(t, back, 5)
	assert.Equal(t, Stats{Entered: 3, Updated: 2}, Count(cmds))
	for i, c := range cmds {
		assert.Equal(t, all[i].Key(), c.Key)
	}
}

func TestReconcileEmptyVisibleExitsAll(t *testing.T) {
	s := sampleStore()
	all := s.Events()
	current, _ := Reconcile(all, runLayout(s, all), nil)

	next, cmds := Reconcile(nil, layout.Result{}, current)
	assert.Empty(t, next)
	assert.Equal(t, Stats{Exited: 5}, Count(cmds))
	for i, c := range cmds {
		assert.Equal(t, current[i], c.Item)
	}
}

func TestReconcileExitsVisibleWithoutPlacement(t *testing.T) {
	s := sampleStore()
	all := s.Events()
	current, _ := Reconcile(all, runLayout(s, all), nil)

	partial := runLayout(s, all[1:])
	next, cmds := Reconcile(all, partial, current)

	require.Len(t, next, len(all)-1)
	assert.Equal(t, Stats{Updated: len(all) - 1, Exited: 1}, Count(cmds))
	assert.Equal(t, Exit, cmds[0].Kind)
	assert.Equal(t, all[0].Key(), cmds[0].Key)
	for _, r := range next {
		assert.NotEqual(t, all[0].Key(), r.Key)
	}
}

func TestReconcileIdenticalRecordsAreDistinct(t *testing.T) {
	s := event.NewStore("test", []event.Record{
		{Country: "Togo", Event: "Same", Date: "1970-01-01"},
		{Country: "Togo", Event: "Same", Date: "1970-01-01"},
	})
	visible := s.Events()
	next, cmds := Reconcile(visible, runLayout(s, visible), nil)

	require.Len(t, next, 2)
	assert.Equal(t, Stats{Entered: 2}, Count(cmds))
	assert.NotEqual(t, next[0].Key, next[1].Key)
}

func TestReconcileDoesNotMutateStore(t *testing.T) {
	s := sampleStore()
	before := s.Events()
	visible := s.Events()
	Reconcile(visible, runLayout(s, visible), nil)
	assert.Equal(t, before, s.Events())
}

func TestHitTest(t *testing.T) {
	items := []Renderable{
		{Placement: layout.Placement{
			Key:    event.Key{Date: "1960-01-01", Description: "a"},
			Anchor: layout.Point{X: 100, Y: 400},
			Box:    layout.Box{Left: 80, Right: 120, Top: 430, Bottom: 460},
		}},
		{Placement: layout.Placement{
			Key:    event.Key{Date: "1961-01-01", Description: "b"},
			Anchor: layout.Point{X: 300, Y: 400},
			Box:    layout.Box{Left: 280, Right: 320, Top: 340, Bottom: 370},
		}},
	}

	k, ok := HitTest(items, layout.Point{X: 102, Y: 401}, 5)
	require.True(t, ok)
	assert.Equal(t, "a", k.Description)

	k, ok = HitTest(items, layout.Point{X: 300, Y: 350}, 5)
	require.True(t, ok)
	assert.Equal(t, "b", k.Description)

	_, ok = HitTest(items, layout.Point{X: 200, Y: 200}, 5)
	assert.False(t, ok)
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "enter", Enter.String())
	assert.Equal(t, "update", Update.String())
	assert.Equal(t, "exit", Exit.String())
	assert.Equal(t, "unknown", CommandKind(9).String())
}
