package event

// Side is the group an event belongs to and the direction its label is drawn
// from the axis. Sign is -1 (before: above or left) or +1 (after: below or right).
type Side struct {
	Name string
	Sign int
}

// SideFunc assigns a side to an event. It must be deterministic.
type SideFunc func(Event) Side

// Side directions.
const (
	SignBefore = -1
	SignAfter  = 1
)

// GroupSides builds a SideFunc grouping events by field. Groups listed in
// assign ("before" or "after") get that direction; the remaining groups
// alternate after, before, after ... in order of first appearance in the store.
func GroupSides(s *Store, field string, assign map[string]string) SideFunc {
	signs := make(map[string]int, len(assign))
	for group, dir := range assign {
		if dir == "before" {
			signs[group] = SignBefore
		} else {
			signs[group] = SignAfter
		}
	}

	next := SignAfter
	for _, ev := range s.events {
		group := ev.Field(field)
		if _, ok := signs[group]; ok {
			continue
		}
		signs[group] = next
		next = -next
	}

	return func(ev Event) Side {
		group := ev.Field(field)
		sign, ok := signs[group]
		if !ok {
			sign = SignAfter
		}
		return Side{Name: group, Sign: sign}
	}
}
