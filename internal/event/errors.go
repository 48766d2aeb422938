package event

import (
	"fmt"
)

// MalformedDateError reports a date string that matches none of the accepted layouts.
type MalformedDateError struct {
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("unable to parse date %q", e.Value)
}

// MalformedRecordError reports a single input record that was skipped.
type MalformedRecordError struct {
	Index int // position of the record in the input, 0-based
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// DataLoadError reports that the source document could not be read or decoded.
// A failed load is terminal: nothing is rendered.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// EmptyDomainError reports that no valid events remain after parsing.
// The accompanying store is valid and renders a blank timeline.
type EmptyDomainError struct {
	Source  string
	Skipped int
}

func (e *EmptyDomainError) Error() string {
	return fmt.Sprintf("%s: no valid events (%d records skipped)", e.Source, e.Skipped)
}
