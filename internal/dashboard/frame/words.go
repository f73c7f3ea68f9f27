package frame

import (
	"sort"
	"strings"
)

// WordWeight is a word cloud entry. Weight is relative to the most frequent
// word, which has weight 1.
type WordWeight struct {
	Word   string  `json:"word" yaml:"word"`
	Count  int     `json:"count" yaml:"count"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// WordWeights splits every non-empty sports_related value into words and
// weighs them by frequency.
func (f *Frame) WordWeights() []WordWeight {
	counts := make(map[string]int)
	for _, r := range f.rows {
		for _, w := range strings.Fields(string(r.SportsRelated)) {
			counts[w]++
		}
	}

	out := make([]WordWeight, 0, len(counts))
	top := 0
	for w, n := range counts {
		out = append(out, WordWeight{Word: w, Count: n})
		if n > top {
			top = n
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	for i := range out {
		out[i].Weight = float64(out[i].Count) / float64(top)
	}
	return out
}
