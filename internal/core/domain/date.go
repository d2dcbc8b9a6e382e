package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical date format used in sidecar files and
// memory documents.
const DateLayout = "2006-01-02"

// Date is a calendar date with lenient JSON decoding. The external
// extractor writes plain "YYYY-MM-DD" strings, but older sidecars carry
// full RFC 3339 timestamps; both are accepted.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// String renders the date in the canonical layout.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts null, "YYYY-MM-DD", or an RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = DateOf(t).Time
		return nil
	}
	return fmt.Errorf("parse date %q: unsupported format", s)
}
