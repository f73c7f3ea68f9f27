package frame

import "fmt"

// KPIs are the dashboard headline figures.
type KPIs struct {
	TotalVisits       int     `json:"total_visits" yaml:"total_visits"`
	UniqueVisitors    int     `json:"unique_visitors" yaml:"unique_visitors"`
	AvgSessionMinutes float64 `json:"avg_session_minutes" yaml:"avg_session_minutes"`
	BounceRate        float64 `json:"bounce_rate" yaml:"bounce_rate"`
}

// KPIs computes the headline figures. Every figure is zero on an empty frame.
func (f *Frame) KPIs() KPIs {
	k := KPIs{TotalVisits: len(f.rows)}
	if k.TotalVisits == 0 {
		return k
	}
	var duration, errs int
	for _, r := range f.rows {
		k.UniqueVisitors += r.NumUniqueVisitors
		duration += r.VisitDuration
		errs += r.HTTPErrors
	}
	k.AvgSessionMinutes = float64(duration) / float64(k.TotalVisits) / 60
	k.BounceRate = float64(errs) / float64(k.TotalVisits) * 100
	return k
}

// AvgSessionLabel renders the average session as shown on the dashboard.
func (k KPIs) AvgSessionLabel() string {
	return fmt.Sprintf("%.2f mins", k.AvgSessionMinutes)
}

// BounceRateLabel renders the bounce rate as shown on the dashboard.
func (k KPIs) BounceRateLabel() string {
	return fmt.Sprintf("%.2f%%", k.BounceRate)
}
