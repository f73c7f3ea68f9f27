package frame

import (
	"github.com/montanaflynn/stats"
)

// ColumnStats summarizes one numeric column. P25 and P75 use the nearest
// rank method and P50 is the median. Std is nil when fewer than
// two values exist.
type ColumnStats struct {
	Column string   `json:"column" yaml:"column"`
	Count  int      `json:"count" yaml:"count"`
	Mean   float64  `json:"mean" yaml:"mean"`
	Std    *float64 `json:"std" yaml:"std"`
	Min    float64  `json:"min" yaml:"min"`
	P25    float64  `json:"p25" yaml:"p25"`
	P50    float64  `json:"p50" yaml:"p50"`
	P75    float64  `json:"p75" yaml:"p75"`
	Max    float64  `json:"max" yaml:"max"`
}

var numericColumns = []struct {
	name  string
	value func(*Row) float64
}{
	{"status_code", func(r *Row) float64 { return float64(r.StatusCode) }},
	{"num_users", func(r *Row) float64 { return float64(r.NumUsers) }},
	{"num_unique_visitors", func(r *Row) float64 { return float64(r.NumUniqueVisitors) }},
	{"visit_duration", func(r *Row) float64 { return float64(r.VisitDuration) }},
	{"page_views_per_visit", func(r *Row) float64 { return float64(r.PageViewsPerVisit) }},
	{"http_errors", func(r *Row) float64 { return float64(r.HTTPErrors) }},
}

// Describe computes descriptive statistics for every numeric column. An
// empty frame yields no columns.
func (f *Frame) Describe() []ColumnStats {
	out := []ColumnStats{}
	if len(f.rows) == 0 {
		return out
	}
	for _, col := range numericColumns {
		data := make(stats.Float64Data, len(f.rows))
		for i := range f.rows {
			data[i] = col.value(&f.rows[i])
		}
		out = append(out, describeColumn(col.name, data))
	}
	return out
}

// describeColumn ignores the stats errors: they only report empty input,
// which Describe rules out.
func describeColumn(name string, data stats.Float64Data) ColumnStats {
	cs := ColumnStats{Column: name, Count: data.Len()}
	cs.Mean, _ = stats.Mean(data)
	cs.Min, _ = stats.Min(data)
	cs.Max, _ = stats.Max(data)
	cs.P25, _ = stats.PercentileNearestRank(data, 25)
	cs.P50, _ = stats.Median(data)
	cs.P75, _ = stats.PercentileNearestRank(data, 75)
	if data.Len() > 1 {
		std, _ := stats.StandardDeviationSample(data)
		cs.Std = &std
	}
	return cs
}
