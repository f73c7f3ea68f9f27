package frame

import "time"

// Filter narrows a frame. Zero dates and an empty location list leave the
// corresponding dimension unfiltered. Conditions combine with AND.
type Filter struct {
	// MinDate and MaxDate are inclusive calendar days; the clock part is ignored.
	MinDate   time.Time
	MaxDate   time.Time
	Locations []string
}

// Apply returns a new frame with the rows that pass the filter.
func (f *Frame) Apply(flt Filter) *Frame {
	var locations map[string]struct{}
	if len(flt.Locations) > 0 {
		locations = make(map[string]struct{}, len(flt.Locations))
		for _, l := range flt.Locations {
			locations[l] = struct{}{}
		}
	}
	minDay, hasMin := day(flt.MinDate)
	maxDay, hasMax := day(flt.MaxDate)

	out := &Frame{rows: make([]Row, 0, len(f.rows))}
	for _, r := range f.rows {
		d, _ := day(r.Time)
		if hasMin && d.Before(minDay) {
			continue
		}
		if hasMax && d.After(maxDay) {
			continue
		}
		if locations != nil {
			if _, ok := locations[r.Location]; !ok {
				continue
			}
		}
		out.rows = append(out.rows, r)
	}
	return out
}

func day(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}
