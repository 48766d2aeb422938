package event

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"iso date", "1960-04-27", time.Date(1960, 4, 27, 0, 0, 0, 0, time.UTC), true},
		{"padded", "  1969-05-01 ", time.Date(1969, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"rfc3339 keeps date only", "1990-02-19T13:45:00Z", time.Date(1990, 2, 19, 0, 0, 0, 0, time.UTC), true},
		{"us style", "05/01/1968", time.Date(1968, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "not-a-date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"impossible day", "1960-02-31", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if !tt.ok {
				var dateErr *MalformedDateError
				require.ErrorAs(t, err, &dateErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewStoreSkipsMalformedRecords(t *testing.T) {
	s := NewStore("inline", []Record{
		{Date: "1960-04-27", Event: "Independence", Country: "Togo"},
		{Date: "not-a-date", Event: "Broken", Country: "Togo"},
		{Date: "1960-08-01", Event: "Independence", Country: "Benin"},
	})

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "Togo", s.At(0).Country)
	assert.Equal(t, "Benin", s.At(1).Country)
	assert.Equal(t, 1, s.At(1).Index)

	skipped := s.Skipped()
	require.Len(t, skipped, 1)
	var recErr *MalformedRecordError
	require.ErrorAs(t, skipped[0], &recErr)
	assert.Equal(t, 1, recErr.Index)
	var dateErr *MalformedDateError
	assert.ErrorAs(t, skipped[0], &dateErr)
}

func TestKeysAreDistinctForDuplicates(t *testing.T) {
	s := NewStore("inline", []Record{
		{Date: "1960-04-27", Country: "Togo"},
		{Date: "1960-04-27", Country: "Togo"},
		{Date: "1960-04-27", Event: "Other", Country: "Togo"},
	})
	require.Equal(t, 3, s.Len())

	k0, k1, k2 := s.At(0).Key(), s.At(1).Key(), s.At(2).Key()
	assert.NotEqual(t, k0, k1)
	assert.NotEqual(t, k0, k2)
	assert.Equal(t, 0, k0.Seq)
	assert.Equal(t, 1, k1.Seq)
	assert.Equal(t, 0, k2.Seq)
	assert.Equal(t, "1960-04-27||1", k1.String())

	ev, ok := s.Lookup(k1)
	require.True(t, ok)
	assert.Equal(t, 1, ev.Index)
	_, ok = s.Lookup(Key{Date: "2000-01-01"})
	assert.False(t, ok)
}

func TestEventsReturnsCopy(t *testing.T) {
	s := NewStore("inline", []Record{{Date: "1960-04-27", Event: "A"}})
	evs := s.Events()
	evs[0].Description = "mutated"
	assert.Equal(t, "A", s.At(0).Description)
}

func TestExtent(t *testing.T) {
	s := NewStore("inline", []Record{
		{Date: "1970-01-01"}, {Date: "1960-01-01"}, {Date: "1990-06-15"},
	})
	first, last, ok := s.Extent()
	require.True(t, ok)
	assert.Equal(t, 1960, first.Year())
	assert.Equal(t, 1990, last.Year())

	_, _, ok = NewStore("empty", nil).Extent()
	assert.False(t, ok)
}

func TestEventFields(t *testing.T) {
	s := NewStore("inline", []Record{{Date: "1968-05-01", Event: "Expulsion", Country: "Senegal", Category: "Education"}})
	ev := s.At(0)
	assert.Equal(t, "Senegal", ev.Field("Country"))
	assert.Equal(t, "Education", ev.Field("category"))
	assert.Equal(t, "Expulsion", ev.Field("event"))
	assert.Equal(t, "1968-05-01", ev.Field("date"))
	assert.Equal(t, "", ev.Field("unknown"))
	assert.Equal(t, "Expulsion<br/>1968-05-01", ev.TooltipText())
}

func TestCountryCode(t *testing.T) {
	s := NewStore("inline", []Record{
		{Date: "1960-04-27", Country: "Togo"},
		{Date: "1960-04-27", Country: "Benin-Togo"},
	})
	assert.Equal(t, "TG", s.At(0).CountryCode())
	assert.Equal(t, "", s.At(1).CountryCode())
}

func TestLoadJSON(t *testing.T) {
	doc := `[
  {"country": "Togo", "event": "Independence", "date": "1960-04-27", "category": "Politics"},
  {"country": "Benin", "event": "Broken", "date": "not-a-date"},
  {"country": "Benin", "event": "Dahomean May", "date": "1969-05-01"}
]`
	s, err := LoadJSON("doc.json", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.Skipped(), 1)
	assert.Equal(t, "Politics", s.At(0).Category)
}

func TestLoadJSONEventsObject(t *testing.T) {
	doc := `{"events": [{"country": "Togo", "event": "A", "date": "1960-04-27"}]}`
	s, err := LoadJSON("doc.json", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestLoadJSONErrors(t *testing.T) {
	_, err := LoadJSON("bad.json", strings.NewReader(`[{"date": `))
	var loadErr *DataLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "bad.json", loadErr.Source)

	s, err := LoadJSON("empty.json", strings.NewReader(`[{"date": "nope"}]`))
	var emptyErr *EmptyDomainError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, 1, emptyErr.Skipped)
	require.NotNil(t, s)
	assert.Equal(t, 0, s.Len())
}

func TestLoadJSONSkipsUndecodableRecords(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong field type", `[{"date":"1960-04-27","event":"A"},{"date":19600801,"event":"B"},{"date":"1961-01-01","event":"C"}]`},
		{"non-object element", `[{"date":"1960-04-27","event":"A"},"junk",{"date":"1961-01-01","event":"C"}]`},
		{"events object", `{"events":[{"date":"1960-04-27","event":"A"},42,{"date":"1961-01-01","event":"C"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadJSON("doc.json", strings.NewReader(tt.doc))
			require.NoError(t, err)
			require.Equal(t, 2, s.Len())
			assert.Equal(t, "A", s.At(0).Description)
			assert.Equal(t, "C", s.At(1).Description)

			skipped := s.Skipped()
			require.Len(t, skipped, 1)
			var recErr *MalformedRecordError
			require.ErrorAs(t, skipped[0], &recErr)
			assert.Equal(t, 1, recErr.Index)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	doc := "Date,Description,Country,Category\n" +
		"1960-04-27,Independence,Togo,Politics\n" +
		"garbage,Broken,Togo,Politics\n" +
		"1969-05-01,Dahomean May,Benin\n"
	s, err := LoadCSV("doc.csv", strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "Independence", s.At(0).Description)
	assert.Equal(t, "", s.At(1).Category, "short rows leave missing cells empty")
}

func TestLoadCSVRequiresDateColumn(t *testing.T) {
	_, err := LoadCSV("doc.csv", strings.NewReader("when,event\n1960,x\n"))
	var loadErr *DataLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "events.json")
	csvPath := filepath.Join(dir, "events.CSV")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"date":"1960-04-27","event":"A","country":"Togo"}]`), 0o644))
	require.NoError(t, os.WriteFile(csvPath, []byte("date,event\n1960-04-27,A\n1961-01-01,B\n"), 0o644))

	s, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	s, err = LoadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	var loadErr *DataLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"date":"1960-04-27","event":"A","country":"Togo"}]`))
	}))
	defer srv.Close()

	s, err := Load(context.Background(), srv.URL+"/events.json")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, srv.URL+"/events.json", s.Source())

	_, err = LoadURL(context.Background(), srv.Client(), srv.URL+"/missing.json")
	var loadErr *DataLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.False(t, errors.Is(err, context.Canceled))
}

func TestGroupSides(t *testing.T) {
	s := NewStore("inline", []Record{
		{Date: "1960-01-01", Country: "Benin"},
		{Date: "1960-01-02", Country: "Togo"},
		{Date: "1960-01-03", Country: "Benin-Togo"},
		{Date: "1960-01-04", Country: "Senegal"},
	})

	sides := GroupSides(s, "country", map[string]string{"Togo": "after", "Benin": "before"})
	assert.Equal(t, Side{Name: "Benin", Sign: SignBefore}, sides(s.At(0)))
	assert.Equal(t, Side{Name: "Togo", Sign: SignAfter}, sides(s.At(1)))
	assert.Equal(t, SignAfter, sides(s.At(2)).Sign, "first unassigned group goes after")
	assert.Equal(t, SignBefore, sides(s.At(3)).Sign, "unassigned groups alternate")

	// Deterministic: same event, same side.
	assert.Equal(t, sides(s.At(2)), sides(s.At(2)))

	byCategory := GroupSides(s, "category", nil)
	assert.Equal(t, Side{Name: "", Sign: SignAfter}, byCategory(s.At(0)))
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{in: "1960-04-27|Independence|0", want: Key{Date: "1960-04-27", Description: "Independence"}},
		{in: "1960-04-27|Independence|2", want: Key{Date: "1960-04-27", Description: "Independence", Seq: 2}},
		{in: "1960-04-27|A|B|1", want: Key{Date: "1960-04-27", Description: "A|B", Seq: 1}},
		{in: "1960-04-27|Independence", want: Key{Date: "1960-04-27", Description: "Independence"}},
		{in: "1960-04-27|Independence|x", wantErr: true},
		{in: "no separator", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	k := Key{Date: "1991-02-19", Description: "Border | agreement", Seq: 3}
	back, err := ParseKey(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, back)
}
