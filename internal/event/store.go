package event

import (
	"time"
)

// Record is one raw input record as found in JSON or CSV documents.
type Record struct {
	Country  string `json:"country"`
	Event    string `json:"event"`
	Date     string `json:"date"`
	Category string `json:"category,omitempty"`
}

// Store owns the loaded events. It is immutable after construction; every
// accessor hands out copies.
type Store struct {
	source  string
	events  []Event
	byKey   map[Key]int
	skipped []error
}

// NewStore builds a store from records, skipping records whose date cannot be
// parsed. Each skipped record is reported as a *MalformedRecordError in Skipped.
func NewStore(source string, records []Record) *Store {
	return buildStore(source, records, nil)
}

// buildStore is NewStore with records that already failed to decode. A record
// whose index is in bad is skipped with that error.
func buildStore(source string, records []Record, bad map[int]error) *Store {
	s := &Store{
		source: source,
		byKey:  make(map[Key]int, len(records)),
	}
	seen := make(map[[2]string]int)

	for i, rec := range records {
		if err, ok := bad[i]; ok {
			s.skipped = append(s.skipped, &MalformedRecordError{Index: i, Err: err})
			continue
		}
		date, err := ParseDate(rec.Date)
		if err != nil {
			s.skipped = append(s.skipped, &MalformedRecordError{Index: i, Err: err})
			continue
		}

		ev := Event{
			Index:       len(s.events),
			Date:        date,
			Description: rec.Event,
			Country:     rec.Country,
			Category:    rec.Category,
		}
		pair := [2]string{ev.DateString(), ev.Description}
		ev.key = Key{Date: pair[0], Description: pair[1], Seq: seen[pair]}
		seen[pair]++

		s.byKey[ev.key] = ev.Index
		s.events = append(s.events, ev)
	}
	return s
}

// Source names where the events came from.
func (s *Store) Source() string {
	return s.source
}

// Len returns the number of valid events.
func (s *Store) Len() int {
	return len(s.events)
}

// Events returns a copy of all events in load order.
func (s *Store) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// At returns the i-th event.
func (s *Store) At(i int) Event {
	return s.events[i]
}

// Lookup finds an event by key.
func (s *Store) Lookup(k Key) (Event, bool) {
	i, ok := s.byKey[k]
	if !ok {
		return Event{}, false
	}
	return s.events[i], true
}

// Skipped lists the records dropped during construction.
func (s *Store) Skipped() []error {
	out := make([]error, len(s.skipped))
	copy(out, s.skipped)
	return out
}

// Extent returns the earliest and latest event dates. ok is false for an empty store.
func (s *Store) Extent() (first, last time.Time, ok bool) {
	if len(s.events) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = s.events[0].Date, s.events[0].Date
	for _, ev := range s.events[1:] {
		if ev.Date.Before(first) {
			first = ev.Date
		}
		if ev.Date.After(last) {
			last = ev.Date
		}
	}
	return first, last, true
}

// emptyErr returns an *EmptyDomainError when the store holds no events.
func (s *Store) emptyErr() error {
	if len(s.events) > 0 {
		return nil
	}
	return &EmptyDomainError{Source: s.source, Skipped: len(s.skipped)}
}
