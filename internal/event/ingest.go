package event

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dbitech/timeline2svg/internal/logx"
)

// dateFormats are tried in order. Only the date part of the result is kept.
var dateFormats = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
}

// ParseDate parses a date string into a calendar date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, format := range dateFormats {
		t, err := time.Parse(format, value)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &MalformedDateError{Value: value}
}

// finish logs skipped records and reports an empty domain.
func finish(s *Store) (*Store, error) {
	for _, err := range s.skipped {
		logx.Warn("skipping malformed record in "+s.source, err)
	}
	logx.Debugf("Loaded %d events from %s (%d skipped)", s.Len(), s.source, len(s.skipped))
	return s, s.emptyErr()
}

// LoadJSON decodes a JSON document. Both a top-level array of records and an
// object with an "events" array are accepted.
//
// Malformed records are skipped. An undecodable document yields a
// *DataLoadError and a nil store; zero valid events yield an
// *EmptyDomainError together with an empty store.
func LoadJSON(source string, r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}

	var raw []json.RawMessage
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc struct {
			Events []json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("error parsing JSON: %w", err)}
		}
		raw = doc.Events
	} else if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("error parsing JSON: %w", err)}
	}

	// Each element decodes on its own so one bad record only skips itself.
	records := make([]Record, len(raw))
	bad := make(map[int]error)
	for i, elem := range raw {
		if err := json.Unmarshal(elem, &records[i]); err != nil {
			bad[i] = fmt.Errorf("error parsing JSON record: %w", err)
		}
	}

	return finish(buildStore(source, records, bad))
}

// LoadCSV reads a CSV document with a header row. Column names are matched
// case-insensitively; "date" is required, "event" (or "description"),
// "country" and "category" are optional.
func LoadCSV(source string, r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("error reading CSV header: %w", err)}
	}

	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := columnMap["date"]; !ok {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("date column not found in CSV. Available columns: %v", header)}
	}
	if _, ok := columnMap["event"]; !ok {
		if i, ok := columnMap["description"]; ok {
			columnMap["event"] = i
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columnMap[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("error reading CSV: %w", err)}
		}
		records = append(records, Record{
			Country:  cell(row, "country"),
			Event:    cell(row, "event"),
			Date:     cell(row, "date"),
			Category: cell(row, "category"),
		})
	}

	return finish(NewStore(source, records))
}

// LoadFile loads a .csv or .json file, chosen by extension.
func LoadFile(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(path, file)
	}
	return LoadJSON(path, file)
}

// LoadURL performs a single GET request and decodes the body. There are no
// retries; any failure is a *DataLoadError.
func LoadURL(ctx context.Context, client *http.Client, url string) (*Store, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DataLoadError{Source: url, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &DataLoadError{Source: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DataLoadError{Source: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "csv") || strings.HasSuffix(strings.ToLower(url), ".csv") {
		return LoadCSV(url, resp.Body)
	}
	return LoadJSON(url, resp.Body)
}

// Load dispatches on the source: http(s) URLs are fetched, anything else is a file path.
func Load(ctx context.Context, source string) (*Store, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return LoadURL(ctx, nil, source)
	}
	return LoadFile(source)
}
