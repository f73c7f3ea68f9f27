package frame

import (
	"fmt"
	"sort"
	"strconv"
)

// Field names a categorical column.
type Field string

// Groupable fields.
const (
	FieldLocation        Field = "location"
	FieldSportsRelated   Field = "sports_related"
	FieldReferralTraffic Field = "referral_traffic"
	FieldHTTPStatus      Field = "http_status"
	FieldContentType     Field = "content_type"
	FieldRequestMethod   Field = "request_method"
	FieldStatusCode      Field = "status_code"
)

// Count is one category and the number of rows in it.
type Count struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

func (field Field) value(r *Row) (string, error) {
	switch field {
	case FieldLocation:
		return r.Location, nil
	case FieldSportsRelated:
		return string(r.SportsRelated), nil
	case FieldReferralTraffic:
		return r.ReferralTraffic, nil
	case FieldHTTPStatus:
		return r.HTTPStatus, nil
	case FieldContentType:
		return r.ContentType, nil
	case FieldRequestMethod:
		return r.RequestMethod, nil
	case FieldStatusCode:
		return strconv.Itoa(r.StatusCode), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, string(field))
}

// CountBy counts rows per distinct value of field, ordered by count
// descending then label ascending.
func (f *Frame) CountBy(field Field) ([]Count, error) {
	if _, err := field.value(&Row{}); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for i := range f.rows {
		v, _ := field.value(&f.rows[i])
		counts[v]++
	}
	return sortCounts(counts), nil
}

func sortCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for label, n := range counts {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
