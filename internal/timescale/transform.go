package timescale

import "math"

// Transform is a one-dimensional zoom/pan state: coord' = K*coord + X.
type Transform struct {
	K float64 `json:"k" yaml:"k"`
	X float64 `json:"x" yaml:"x"`
}

// Identity returns the transform that leaves coordinates unchanged.
func Identity() Transform {
	return Transform{K: 1}
}

// Apply transforms a base coordinate.
func (t Transform) Apply(coord float64) float64 {
	return t.K*coord + t.X
}

// Invert maps a transformed coordinate back to the base coordinate.
func (t Transform) Invert(coord float64) float64 {
	if t.K == 0 {
		return coord - t.X
	}
	return (coord - t.X) / t.K
}

// Clamp limits K to [minK, maxK], keeping X.
func (t Transform) Clamp(minK, maxK float64) Transform {
	t.K = math.Max(minK, math.Min(maxK, t.K))
	return t
}

// ZoomAt scales by factor around focus, a screen coordinate that stays fixed.
// The resulting K is clamped to [minK, maxK].
func (t Transform) ZoomAt(factor, focus, minK, maxK float64) Transform {
	if factor <= 0 || t.K == 0 {
		return t
	}
	k := math.Max(minK, math.Min(maxK, t.K*factor))
	base := t.Invert(focus)
	return Transform{K: k, X: focus - base*k}
}

// Pan translates by delta screen pixels.
func (t Transform) Pan(delta float64) Transform {
	t.X += delta
	return t
}
