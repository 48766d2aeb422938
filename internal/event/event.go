// Package event holds the immutable event list a timeline is built from,
// together with ingestion from JSON and CSV documents.
package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/biter777/countries"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// Key is the stable identity of an event. Events with the same date and
// description are told apart by Seq, their occurrence ordinal in load order.
type Key struct {
	Date        string
	Description string
	Seq         int
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%d", k.Date, k.Description, k.Seq)
}

// ParseKey is the inverse of Key.String. The description may itself contain
// '|'; a missing ordinal means 0.
func ParseKey(s string) (Key, error) {
	date, rest, ok := strings.Cut(s, "|")
	if !ok || date == "" {
		return Key{}, fmt.Errorf("invalid event key %q", s)
	}
	k := Key{Date: date, Description: rest}
	if i := strings.LastIndex(rest, "|"); i >= 0 {
		seq, err := strconv.Atoi(rest[i+1:])
		if err != nil || seq < 0 {
			return Key{}, fmt.Errorf("invalid ordinal in event key %q", s)
		}
		k.Description, k.Seq = rest[:i], seq
	}
	return k, nil
}

// Event represents a single dated event. Events are created by a Store and
// never mutated afterwards.
type Event struct {
	Index       int       // position in the store, used as a stable tie-breaker
	Date        time.Time // calendar date at UTC midnight
	Description string
	Country     string
	Category    string
	key         Key
}

// Key returns the event's stable identity.
func (e Event) Key() Key {
	return e.key
}

// DateString returns the date in YYYY-MM-DD form.
func (e Event) DateString() string {
	return e.Date.Format(DateLayout)
}

// Field returns the value of a named field. Names are case-insensitive;
// unknown names yield "".
func (e Event) Field(name string) string {
	switch strings.ToLower(name) {
	case "country":
		return e.Country
	case "category":
		return e.Category
	case "event", "description":
		return e.Description
	case "date":
		return e.DateString()
	default:
		return ""
	}
}

// CountryCode returns the ISO 3166-1 alpha-2 code of the event's country,
// or "" when the country is not a recognised name (for example "Benin-Togo").
func (e Event) CountryCode() string {
	code := countries.ByName(e.Country)
	if code == countries.Unknown {
		return ""
	}
	return code.Alpha2()
}

// TooltipText is the hover text: description, then date.
func (e Event) TooltipText() string {
	return e.Description + "<br/>" + e.DateString()
}
