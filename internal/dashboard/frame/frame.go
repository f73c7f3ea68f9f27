// Package frame holds the in-memory table of cleaned records and the
// filters, KPIs and aggregations computed over it.
package frame

import (
	"time"

	"github.com/okian/funolympics/internal/domain/model"
)

// timestampLayouts are tried in order when parsing a record timestamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Row is a cleaned record with its parsed timestamp.
type Row struct {
	model.CleanedLogRecord
	Time time.Time
}

// Frame is an immutable, ordered set of rows.
type Frame struct {
	rows    []Row
	dropped int
}

// NewFrame parses every record's timestamp. Records whose timestamp does
// not parse are dropped and counted in Dropped. Times carrying an offset
// are normalized to UTC.
func NewFrame(records []model.CleanedLogRecord) *Frame {
	f := &Frame{rows: make([]Row, 0, len(records))}
	for _, r := range records {
		t, ok := ParseTimestamp(r.Timestamp)
		if !ok {
			f.dropped++
			continue
		}
		f.rows = append(f.rows, Row{CleanedLogRecord: r, Time: t})
	}
	return f
}

// ParseTimestamp parses s with the accepted layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Dropped returns how many records were rejected for a bad timestamp.
func (f *Frame) Dropped() int { return f.dropped }

// Rows returns a copy of the rows in their original order.
func (f *Frame) Rows() []Row {
	out := make([]Row, len(f.rows))
	copy(out, f.rows)
	return out
}

// Records returns the underlying records in order.
func (f *Frame) Records() []model.CleanedLogRecord {
	out := make([]model.CleanedLogRecord, len(f.rows))
	for i := range f.rows {
		out[i] = f.rows[i].CleanedLogRecord
	}
	return out
}

// Locations returns the distinct locations in order of first appearance.
func (f *Frame) Locations() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range f.rows {
		if _, ok := seen[r.Location]; ok {
			continue
		}
		seen[r.Location] = struct{}{}
		out = append(out, r.Location)
	}
	return out
}

// Bounds returns the earliest and latest row times. ok is false for an
// empty frame.
func (f *Frame) Bounds() (first, last time.Time, ok bool) {
	if len(f.rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = f.rows[0].Time, f.rows[0].Time
	for _, r := range f.rows[1:] {
		if r.Time.Before(first) {
			first = r.Time
		}
		if r.Time.After(last) {
			last = r.Time
		}
	}
	return first, last, true
}
