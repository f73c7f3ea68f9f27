package generator_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/okian/funolympics/internal/domain/generator"
	"github.com/okian/funolympics/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 18, 15, 30, 0, 0, time.UTC)
}

func TestGenerate_Invariants(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		g := generator.New(generator.WithSeed(42), generator.WithClock(fixedClock))

		Convey("When generating many records", func() {
			records := make([]model.LogRecord, 2000)
			for i := range records {
				records[i] = g.Generate()
			}

			Convey("Then every record should satisfy the visitor invariant", func() {
				for _, r := range records {
					So(r.NumUsers, ShouldBeBetweenOrEqual, model.MinUsers, model.MaxUsers)
					So(r.NumUniqueVisitors, ShouldBeGreaterThanOrEqualTo, 1)
					So(r.NumUniqueVisitors, ShouldBeLessThanOrEqualTo, r.NumUsers)
				}
			})

			Convey("Then search terms should follow the sport mapping", func() {
				for _, r := range records {
					So(r.SearchTerms, ShouldResemble, model.SearchTerms(r.SportsRelated))
					So(r.Validate(), ShouldBeNil)
				}
			})

			Convey("Then referral labels and user agents should carry the drawn brand", func() {
				for _, r := range records {
					switch r.ReferrerMethod {
					case model.ReferrerSearchEngine:
						So(r.ReferralTraffic, ShouldEndWith, " (Search Engine)")
						brand := strings.TrimSuffix(r.ReferralTraffic, " (Search Engine)")
						So(model.SearchEngines, ShouldContain, brand)
						So(r.UserAgent, ShouldEndWith, " "+brand)
					case model.ReferrerSocialMedia:
						So(r.ReferralTraffic, ShouldStartWith, "SM-")
						brand := strings.TrimPrefix(r.ReferralTraffic, "SM-")
						So(model.SocialNetworks, ShouldContain, brand)
						So(r.UserAgent, ShouldEndWith, " "+brand)
					default:
						So(r.ReferrerMethod, ShouldEqual, model.ReferrerDirectLink)
						So(r.ReferralTraffic, ShouldEqual, "direct_link")
					}
				}
			})

			Convey("Then bounded fields should stay in range", func() {
				for _, r := range records {
					So(r.VisitDuration, ShouldBeBetweenOrEqual, model.MinVisitDuration, model.MaxVisitDuration)
					So(r.PageViewsPerVisit, ShouldBeBetweenOrEqual, model.MinPageViews, model.MaxPageViews)
					So(r.HTTPErrors, ShouldBeBetweenOrEqual, model.MinHTTPErrors, model.MaxHTTPErrors)
					So(model.StatusCodes, ShouldContain, r.StatusCode)
					So(model.HTTPStatuses, ShouldContain, r.HTTPStatus)
					So(model.RequestMethods, ShouldContain, r.RequestMethod)
					So(model.ContentTypes, ShouldContain, r.ContentType)
					So(r.PeakTrafficPeriod, ShouldHaveLength, 8)
				}
			})

			Convey("Then timestamps should fall within the current month up to now", func() {
				monthStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
				for _, r := range records {
					ts, err := time.Parse(model.TimestampLayout, r.Timestamp)
					So(err, ShouldBeNil)
					So(ts.Before(monthStart), ShouldBeFalse)
					So(ts.After(fixedClock()), ShouldBeFalse)
				}
			})
		})
	})
}

func TestGenerate_Deterministic(t *testing.T) {
	Convey("Given two generators with the same seed and clock", t, func() {
		a := generator.New(generator.WithSeed(7), generator.WithClock(fixedClock))
		b := generator.New(generator.WithSeed(7), generator.WithClock(fixedClock))

		Convey("Then they should produce the same records", func() {
			for i := 0; i < 20; i++ {
				So(a.Generate(), ShouldResemble, b.Generate())
			}
		})
	})
}

func TestBatch(t *testing.T) {
	Convey("Given a generator", t, func() {
		g := generator.New(generator.WithSeed(3), generator.WithClock(fixedClock))

		Convey("When a batch of 200 is requested", func() {
			batch, err := g.Batch(200)

			Convey("Then 200 decodable records should be returned", func() {
				So(err, ShouldBeNil)
				So(batch, ShouldHaveLength, 200)
				for _, raw := range batch {
					var r model.LogRecord
					So(json.Unmarshal(raw, &r), ShouldBeNil)
					So(r.Validate(), ShouldBeNil)
				}
			})
		})

		Convey("When an empty batch is requested", func() {
			batch, err := g.Batch(0)
			So(err, ShouldBeNil)
			So(batch, ShouldBeEmpty)
		})
	})
}
