package dashboard

import (
	"fmt"

	"github.com/okian/funolympics/internal/dashboard/frame"
	"github.com/okian/funolympics/internal/domain/model"
)

// Page titles.
const (
	DashboardTitle = "PAYRIS FUNOLYMPICS DASHBOARD"
	ReportTitle    = "Statistical Report"
)

// Query selects what a dashboard view shows.
type Query struct {
	Filter      frame.Filter
	Granularity frame.Granularity
}

// View is everything the dashboard page renders for one query.
type View struct {
	Title       string                   `json:"title" yaml:"title"`
	Rows        int                      `json:"rows" yaml:"rows"`
	Dropped     int                      `json:"dropped" yaml:"dropped"`
	Locations   []string                 `json:"locations" yaml:"locations"`
	KPIs        frame.KPIs               `json:"kpis" yaml:"kpis"`
	AvgSession  string                   `json:"avg_session" yaml:"avg_session"`
	BounceRate  string                   `json:"bounce_rate" yaml:"bounce_rate"`
	ByLocation  []frame.Count            `json:"by_location" yaml:"by_location"`
	BySport     []frame.Count            `json:"by_sport" yaml:"by_sport"`
	ByReferral  []frame.Count            `json:"by_referral" yaml:"by_referral"`
	ByStatus    []frame.Count            `json:"by_status" yaml:"by_status"`
	Words       []frame.WordWeight       `json:"words" yaml:"words"`
	Heatmap     frame.Heatmap            `json:"heatmap" yaml:"heatmap"`
	Granularity frame.Granularity        `json:"granularity" yaml:"granularity"`
	Series      []frame.Bucket           `json:"series" yaml:"series"`
	Records     []model.CleanedLogRecord `json:"records" yaml:"records"`
}

// Report is the descriptive statistics page.
type Report struct {
	Title   string              `json:"title" yaml:"title"`
	Rows    int                 `json:"rows" yaml:"rows"`
	Columns []frame.ColumnStats `json:"columns" yaml:"columns"`
}

// BuildView filters records and computes every dashboard section. The
// location options come from the unfiltered records.
func BuildView(records []model.CleanedLogRecord, q Query) (*View, error) {
	all := frame.NewFrame(records)
	f := all.Apply(q.Filter)

	g := q.Granularity
	if g == "" {
		g = frame.Hourly
	}
	series, err := f.Series(g)
	if err != nil {
		return nil, err
	}

	k := f.KPIs()
	v := &View{
		Title:       DashboardTitle,
		Rows:        f.Len(),
		Dropped:     all.Dropped(),
		Locations:   all.Locations(),
		KPIs:        k,
		AvgSession:  k.AvgSessionLabel(),
		BounceRate:  k.BounceRateLabel(),
		Words:       f.WordWeights(),
		Heatmap:     f.Heatmap(),
		Granularity: g,
		Series:      series,
		Records:     f.Records(),
	}
	counts := []struct {
		field frame.Field
		dst   *[]frame.Count
	}{
		{frame.FieldLocation, &v.ByLocation},
		{frame.FieldSportsRelated, &v.BySport},
		{frame.FieldReferralTraffic, &v.ByReferral},
		{frame.FieldHTTPStatus, &v.ByStatus},
	}
	for _, c := range counts {
		if *c.dst, err = f.CountBy(c.field); err != nil {
			return nil, fmt.Errorf("count by %s: %w", c.field, err)
		}
	}
	return v, nil
}

// BuildReport describes the numeric columns of records.
func BuildReport(records []model.CleanedLogRecord) *Report {
	f := frame.NewFrame(records)
	return &Report{Title: ReportTitle, Rows: f.Len(), Columns: f.Describe()}
}
