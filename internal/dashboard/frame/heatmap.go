package frame

import "time"

// weekOrder lists days Monday first.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Heatmap counts rows per day of week and hour of day. Counts[i][j] is the
// count for Days[i] at Hours[j].
type Heatmap struct {
	Days   []string `json:"days" yaml:"days"`
	Hours  []int    `json:"hours" yaml:"hours"`
	Counts [][]int  `json:"counts" yaml:"counts"`
}

// Heatmap builds the day by hour matrix. Only days and hours that occur
// are included; missing combinations are zero.
func (f *Frame) Heatmap() Heatmap {
	var grid [7][24]int
	var dayPresent [7]bool
	var hourPresent [24]bool
	for _, r := range f.rows {
		d := (int(r.Time.Weekday()) + 6) % 7
		h := r.Time.Hour()
		grid[d][h]++
		dayPresent[d] = true
		hourPresent[h] = true
	}

	hm := Heatmap{Days: []string{}, Hours: []int{}, Counts: [][]int{}}
	for h, ok := range hourPresent {
		if ok {
			hm.Hours = append(hm.Hours, h)
		}
	}
	for d, ok := range dayPresent {
		if !ok {
			continue
		}
		hm.Days = append(hm.Days, weekOrder[d].String())
		row := make([]int, len(hm.Hours))
		for j, h := range hm.Hours {
			row[j] = grid[d][h]
		}
		hm.Counts = append(hm.Counts, row)
	}
	return hm
}
