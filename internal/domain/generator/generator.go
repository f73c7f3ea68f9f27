// Package generator synthesizes plausible web request log records.
package generator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/okian/funolympics/internal/domain/model"
)

const secondsPerDay = 24 * 60 * 60

// Generator builds internally consistent random log records. It is not safe
// for concurrent use; the fill loop owns a single instance.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes generation reproducible. Zero keeps a random seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.faker = gofakeit.New(seed)
		}
	}
}

// WithClock overrides the time source used to bound timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New constructs a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		faker: gofakeit.New(0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate synthesizes one record. Timestamps fall between the start of the
// current month and now.
func (g *Generator) Generate() model.LogRecord {
	f := g.faker
	now := g.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	sport := model.Sports[f.Number(0, len(model.Sports)-1)]
	referrer := model.ReferrerMethods[f.Number(0, len(model.ReferrerMethods)-1)]
	numUsers := f.Number(model.MinUsers, model.MaxUsers)

	userAgent := f.UserAgent()
	var brand string
	switch referrer {
	case model.ReferrerSearchEngine:
		brand = f.RandomString(model.SearchEngines)
	case model.ReferrerSocialMedia:
		brand = f.RandomString(model.SocialNetworks)
	}
	if brand != "" {
		userAgent += " " + brand
	}

	peak := time.Duration(f.Number(0, secondsPerDay-1)) * time.Second

	return model.LogRecord{
		IPAddress:         f.IPv4Address(),
		Timestamp:         f.DateRange(monthStart, now).Format(model.TimestampLayout),
		RequestedURL:      f.URL(),
		RequestMethod:     f.RandomString(model.RequestMethods),
		StatusCode:        model.StatusCodes[f.Number(0, len(model.StatusCodes)-1)],
		ReferrerMethod:    referrer,
		UserAgent:         userAgent,
		NumUsers:          numUsers,
		NumUniqueVisitors: f.Number(model.MinUsers, numUsers),
		Location:          f.Country(),
		PeakTrafficPeriod: fmt.Sprintf("%02d:%02d:%02d", int(peak.Hours()), int(peak.Minutes())%60, int(peak.Seconds())%60),
		VisitDuration:     f.Number(model.MinVisitDuration, model.MaxVisitDuration),
		PageViewsPerVisit: f.Number(model.MinPageViews, model.MaxPageViews),
		TopViewedPage:     f.URL(),
		HTTPReferrer:      f.URL(),
		HTTPStatus:        f.RandomString(model.HTTPStatuses),
		HTTPErrors:        f.Number(model.MinHTTPErrors, model.MaxHTTPErrors),
		SearchTerms:       model.SearchTerms(sport),
		SportsRelated:     sport,
		ContentType:       f.RandomString(model.ContentTypes),
		ReferralTraffic:   model.ReferralTraffic(referrer, brand),
	}
}

// Batch generates n records and encodes each one for the store.
func (g *Generator) Batch(n int) ([]model.RawRecord, error) {
	out := make([]model.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		rec := g.Generate()
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		out = append(out, b)
	}
	return out, nil
}
