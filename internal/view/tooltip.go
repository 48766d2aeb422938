package view

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/dbitech/timeline2svg/internal/event"
	"github.com/dbitech/timeline2svg/internal/layout"
	"github.com/dbitech/timeline2svg/internal/render"
)

// tooltipLift is how far above the pointer the tooltip box starts.
const tooltipLift = 28

// Tooltip is the hover tooltip and its running fade. The fade is stored as
// plain values so State can be copied freely; the tween is rebuilt on each tick.
type Tooltip struct {
	Key     event.Key
	Text    string
	At      layout.Point
	Opacity float64

	From     float64 // opacity when the fade started
	To       float64 // target opacity
	Duration float64 // fade length in seconds
	Elapsed  float64 // seconds since the fade started
}

// Visible reports whether the tooltip shows anything.
func (t Tooltip) Visible() bool {
	return t.Opacity > 0 && t.Text != ""
}

// Fading reports whether a fade is still running.
func (t Tooltip) Fading() bool {
	return t.Duration > 0 && t.Elapsed < t.Duration
}

// View converts the tooltip for a surface.
func (t Tooltip) View() render.TooltipView {
	return render.TooltipView{Key: t.Key, Text: t.Text, At: t.At, Opacity: t.Opacity}
}

// fadeTo starts a fade from the current opacity.
func (t Tooltip) fadeTo(target, seconds float64) Tooltip {
	t.From = t.Opacity
	t.To = target
	t.Duration = seconds
	t.Elapsed = 0
	if seconds <= 0 {
		t.Opacity = target
	}
	return t
}

// advance moves the fade forward by dt seconds.
func (t Tooltip) advance(dt float64) Tooltip {
	if !t.Fading() {
		return t
	}
	t.Elapsed += dt
	tween := gween.New(float32(t.From), float32(t.To), float32(t.Duration), ease.Linear)
	val, done := tween.Update(float32(t.Elapsed))
	t.Opacity = float64(val)
	if done {
		t.Opacity = t.To
		t.Elapsed = t.Duration
	}
	if t.Opacity <= 0 && !t.Fading() {
		t.Text = ""
		t.Key = event.Key{}
	}
	return t
}
