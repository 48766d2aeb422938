// Package timescale maps calendar dates onto a one-dimensional screen axis.
package timescale

import (
	"math"
	"time"
)

// Scale is a linear mapping from a date domain to a pixel range, optionally
// composed with a zoom/pan Transform. The zero Transform is not valid; use
// New, which starts from the identity.
type Scale struct {
	start, end time.Time
	r0, r1     float64
	t          Transform
}

// New returns a scale mapping [start, end] onto [r0, r1].
func New(start, end time.Time, r0, r1 float64) Scale {
	if end.Before(start) {
		start, end = end, start
	}
	return Scale{start: start, end: end, r0: r0, r1: r1, t: Identity()}
}

// FromExtent returns a scale whose domain is [first, last] widened by padYears
// years on both sides.
func FromExtent(first, last time.Time, padYears int, r0, r1 float64) Scale {
	return New(first.AddDate(-padYears, 0, 0), last.AddDate(padYears, 0, 0), r0, r1)
}

// Domain returns the date domain.
func (s Scale) Domain() (start, end time.Time) {
	return s.start, s.end
}

// Range returns the untransformed pixel range.
func (s Scale) Range() (r0, r1 float64) {
	return s.r0, s.r1
}

// Transform returns the transform the scale is composed with.
func (s Scale) Transform() Transform {
	return s.t
}

// base maps a date with the identity transform. A zero-width domain maps
// everything to the middle of the range.
func (s Scale) base(t time.Time) float64 {
	span := s.end.Unix() - s.start.Unix()
	if span == 0 {
		return (s.r0 + s.r1) / 2
	}
	frac := float64(t.Unix()-s.start.Unix()) / float64(span)
	return s.r0 + frac*(s.r1-s.r0)
}

// Position maps a date to a screen coordinate.
func (s Scale) Position(t time.Time) float64 {
	return s.t.Apply(s.base(t))
}

// Rescale returns the base mapping composed with t. The result depends only
// on the base mapping and t, never on the receiver's current transform.
func (s Scale) Rescale(t Transform) Scale {
	s.t = t
	return s
}

// Invert maps a screen coordinate back to a date, truncated to the day.
func (s Scale) Invert(coord float64) time.Time {
	base := s.t.Invert(coord)
	if s.r1 == s.r0 {
		return s.start
	}
	frac := (base - s.r0) / (s.r1 - s.r0)
	span := float64(s.end.Unix() - s.start.Unix())
	secs := s.start.Unix() + int64(math.Round(frac*span))
	t := time.Unix(secs, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Tick is an axis tick at the start of a year.
type Tick struct {
	Date     time.Time
	Position float64
	Label    string
}

// Ticks returns a tick on January 1st of every year divisible by everyYears
// that falls inside the domain. everyYears <= 0 returns nil.
func (s Scale) Ticks(everyYears int) []Tick {
	if everyYears <= 0 {
		return nil
	}
	year := s.start.Year()
	if rem := year % everyYears; rem != 0 {
		year += everyYears - rem
	}
	if time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Before(s.start) {
		year += everyYears
	}

	var ticks []Tick
	for {
		d := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		if d.After(s.end) {
			break
		}
		ticks = append(ticks, Tick{Date: d, Position: s.Position(d), Label: d.Format("2006")})
		year += everyYears
	}
	return ticks
}
