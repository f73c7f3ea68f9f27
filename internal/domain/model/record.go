// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
)

// TimestampLayout is the ISO-8601 layout generated records use (no zone).
const TimestampLayout = "2006-01-02T15:04:05"

// AnonymizedAddress replaces every source address during cleaning.
const AnonymizedAddress = "xxx.xxx.xxx.xxx"

// RawRecord is one encoded log record as held by the store.
// The bytes are never modified after the record is appended.
type RawRecord = json.RawMessage

// Sport is the sports category a request relates to.
type Sport string

// Supported sports.
const (
	SportFootball   Sport = "Football"
	SportBasketball Sport = "Basketball"
	SportTennis     Sport = "Tennis"
	SportSwimming   Sport = "Swimming"
	SportRunning    Sport = "Running"
)

// Sports lists every category in generation order.
var Sports = []Sport{SportFootball, SportBasketball, SportTennis, SportSwimming, SportRunning}

var searchTerms = map[Sport][]string{
	SportFootball:   {"football", "soccer", "goal", "penalty", "stadium"},
	SportBasketball: {"basketball", "hoop", "dunk", "court", "player"},
	SportTennis:     {"tennis", "racket", "serve", "match", "court"},
	SportSwimming:   {"swimming", "pool", "stroke", "laps", "competition"},
	SportRunning:    {"running", "jogging", "race", "sprint", "marathon"},
}

// SearchTerms returns the fixed search terms for a sport. Unknown values get
// the Running list, matching the generator's fallthrough.
func SearchTerms(s Sport) []string {
	terms, ok := searchTerms[s]
	if !ok {
		terms = searchTerms[SportRunning]
	}
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// ReferrerMethod is how the visitor arrived.
type ReferrerMethod string

// Referrer methods.
const (
	ReferrerSearchEngine ReferrerMethod = "search_engine"
	ReferrerDirectLink   ReferrerMethod = "direct_link"
	ReferrerSocialMedia  ReferrerMethod = "social_media"
)

// ReferrerMethods lists every referrer method.
var ReferrerMethods = []ReferrerMethod{ReferrerSearchEngine, ReferrerDirectLink, ReferrerSocialMedia}

// Brand pools drawn for the referrer methods that carry one.
var (
	SearchEngines  = []string{"Google", "Bing", "Yahoo", "DuckDuckGo"}
	SocialNetworks = []string{"Facebook", "Twitter", "Instagram", "LinkedIn"}
)

// ReferralTraffic renders the human-readable referral label. brand is
// ignored for direct links.
func ReferralTraffic(m ReferrerMethod, brand string) string {
	switch m {
	case ReferrerSearchEngine:
		return fmt.Sprintf("%s (Search Engine)", brand)
	case ReferrerSocialMedia:
		return "SM-" + brand
	default:
		return string(m)
	}
}

// Enumerations drawn by the generator.
var (
	RequestMethods = []string{"GET", "POST", "PUT", "DELETE"}
	StatusCodes    = []int{200, 404, 500}
	HTTPStatuses   = []string{"OK", "Not Found", "Server Error"}
	ContentTypes   = []string{"article", "video", "event_schedule"}
)

// Generation bounds.
const (
	MinUsers         = 1
	MaxUsers         = 1000
	MinVisitDuration = 10
	MaxVisitDuration = 600
	MinPageViews     = 1
	MaxPageViews     = 10
	MinHTTPErrors    = 0
	MaxHTTPErrors    = 5
)

// NumericFields are the keys cleaning coerces to integers.
var NumericFields = []string{
	"num_users",
	"num_unique_visitors",
	"visit_duration",
	"page_views_per_visit",
	"http_errors",
}

// LogRecord is one synthetic web request event.
type LogRecord struct {
	IPAddress         string         `json:"ip_address" yaml:"ip_address"`
	Timestamp         string         `json:"timestamp" yaml:"timestamp"`
	RequestedURL      string         `json:"requested_url" yaml:"requested_url"`
	RequestMethod     string         `json:"request_method" yaml:"request_method"`
	StatusCode        int            `json:"status_code" yaml:"status_code"`
	ReferrerMethod    ReferrerMethod `json:"referrer_method" yaml:"referrer_method"`
	UserAgent         string         `json:"user_agent" yaml:"user_agent"`
	NumUsers          int            `json:"num_users" yaml:"num_users"`
	NumUniqueVisitors int            `json:"num_unique_visitors" yaml:"num_unique_visitors"`
	Location          string         `json:"location" yaml:"location"`
	PeakTrafficPeriod string         `json:"peak_traffic_period" yaml:"peak_traffic_period"`
	VisitDuration     int            `json:"visit_duration" yaml:"visit_duration"`
	PageViewsPerVisit int            `json:"page_views_per_visit" yaml:"page_views_per_visit"`
	TopViewedPage     string         `json:"top_viewed_page" yaml:"top_viewed_page"`
	HTTPReferrer      string         `json:"http_referrer" yaml:"http_referrer"`
	HTTPStatus        string         `json:"http_status" yaml:"http_status"`
	HTTPErrors        int            `json:"http_errors" yaml:"http_errors"`
	SearchTerms       []string       `json:"search_terms" yaml:"search_terms"`
	SportsRelated     Sport          `json:"sports_related" yaml:"sports_related"`
	ContentType       string         `json:"content_type" yaml:"content_type"`
	ReferralTraffic   string         `json:"referral_traffic" yaml:"referral_traffic"`
}

// CleanedLogRecord is the typed view of a cleaned record. It has the same
// shape as LogRecord; the address is anonymized and the numeric fields are
// guaranteed integers.
type CleanedLogRecord = LogRecord

// Validate checks the record's internal consistency invariants.
func (r *LogRecord) Validate() error {
	if r.NumUniqueVisitors < MinUsers || r.NumUsers < MinUsers {
		return fmt.Errorf("%w: visitor counts must be >= 1", ErrInvalidRecord)
	}
	if r.NumUniqueVisitors > r.NumUsers {
		return fmt.Errorf("%w: num_unique_visitors %d > num_users %d", ErrInvalidRecord, r.NumUniqueVisitors, r.NumUsers)
	}
	want := SearchTerms(r.SportsRelated)
	if len(want) != len(r.SearchTerms) {
		return fmt.Errorf("%w: search_terms do not match %s", ErrInvalidRecord, r.SportsRelated)
	}
	for i := range want {
		if want[i] != r.SearchTerms[i] {
			return fmt.Errorf("%w: search_terms do not match %s", ErrInvalidRecord, r.SportsRelated)
		}
	}
	return nil
}
