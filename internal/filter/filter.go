// Package filter derives the visible subset of events from a selector value.
package filter

import (
	"strings"

	"github.com/dbitech/timeline2svg/internal/event"
)

// All is the wildcard selection.
const All = "all"

// Predicate is an equality test of one event field against a set of values.
// An empty Values set passes everything.
type Predicate struct {
	Field  string
	Values []string
}

// Everything returns the wildcard predicate.
func Everything() Predicate {
	return Predicate{}
}

// Parse builds a predicate from a selector value. "all" (any case) and the
// empty string select everything; comma-separated values select any of them.
func Parse(field, selection string) Predicate {
	p := Predicate{Field: field}
	for _, part := range strings.Split(selection, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, All) {
			return Predicate{Field: field}
		}
		p.Values = append(p.Values, part)
	}
	return p
}

// IsAll reports whether the predicate is the wildcard.
func (p Predicate) IsAll() bool {
	return len(p.Values) == 0
}

// Match tests a single event.
func (p Predicate) Match(ev event.Event) bool {
	if p.IsAll() {
		return true
	}
	got := ev.Field(p.Field)
	for _, v := range p.Values {
		if got == v {
			return true
		}
	}
	return false
}

// String renders the predicate back into selector form.
func (p Predicate) String() string {
	if p.IsAll() {
		return All
	}
	return strings.Join(p.Values, ",")
}

// Apply returns the events matching p in their original relative order.
func Apply(events []event.Event, p Predicate) []event.Event {
	visible := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if p.Match(ev) {
			visible = append(visible, ev)
		}
	}
	return visible
}

// Values lists the distinct values of field in order of first appearance,
// the options a selector offers besides "all".
func Values(events []event.Event, field string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range events {
		v := ev.Field(field)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
