package frame

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the bucket width of a time series.
type Granularity string

// Supported granularities.
const (
	Hourly  Granularity = "hourly"
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// ParseGranularity accepts a granularity name in any case. An empty string
// selects Hourly.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Hourly, nil
	case Hourly, Daily, Monthly:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// Bucket is one period of a series.
type Bucket struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

func (g Granularity) layout() string {
	switch g {
	case Daily:
		return "2006-01-02"
	case Monthly:
		return "2006-01"
	default:
		return "2006-01-02 15:04"
	}
}

func (g Granularity) truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	switch g {
	case Daily:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, time.UTC)
	}
}

func (g Granularity) next(t time.Time) time.Time {
	switch g {
	case Daily:
		return t.AddDate(0, 0, 1)
	case Monthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.Add(time.Hour)
	}
}

// Series counts rows per bucket. Buckets run contiguously from the first
// to the last row with zero counts in gaps.
func (f *Frame) Series(g Granularity) ([]Bucket, error) {
	if _, err := ParseGranularity(string(g)); err != nil {
		return nil, err
	}
	first, last, ok := f.Bounds()
	if !ok {
		return []Bucket{}, nil
	}

	counts := make(map[time.Time]int)
	for _, r := range f.rows {
		counts[g.truncate(r.Time)]++
	}

	out := []Bucket{}
	end := g.truncate(last)
	for t := g.truncate(first); !t.After(end); t = g.next(t) {
		out = append(out, Bucket{Label: t.Format(g.layout()), Count: counts[t]})
	}
	return out, nil
}
