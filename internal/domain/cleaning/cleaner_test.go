package cleaning_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/funolympics/internal/domain/cleaning"
	"github.com/okian/funolympics/internal/domain/generator"
	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const validRecord = `{"ip_address":"10.1.2.3","timestamp":"2024-03-01T10:00:00","num_users":"12",` +
	`"num_unique_visitors":4.9,"visit_duration":" 300 ","page_views_per_visit":true,"http_errors":0,` +
	`"sports_related":"Tennis","location":"France"}`

func decode(raw model.RawRecord) map[string]any {
	var doc map[string]any
	So(json.Unmarshal(raw, &doc), ShouldBeNil)
	return doc
}

func TestClean(t *testing.T) {
	Convey("Given a record with loosely typed numeric fields", t, func() {
		cleaned, err := cleaning.Clean(model.RawRecord(validRecord))

		Convey("Then it should be anonymized and coerced", func() {
			So(err, ShouldBeNil)
			doc := decode(cleaned)
			So(doc["ip_address"], ShouldEqual, model.AnonymizedAddress)
			So(doc["num_users"], ShouldEqual, 12.0)
			So(doc["num_unique_visitors"], ShouldEqual, 4.0)
			So(doc["visit_duration"], ShouldEqual, 300.0)
			So(doc["page_views_per_visit"], ShouldEqual, 1.0)
			So(doc["http_errors"], ShouldEqual, 0.0)
		})

		Convey("Then untouched fields should be preserved", func() {
			doc := decode(cleaned)
			So(doc["location"], ShouldEqual, "France")
			So(doc["sports_related"], ShouldEqual, "Tennis")
			So(doc["timestamp"], ShouldEqual, "2024-03-01T10:00:00")
		})

		Convey("Then cleaning again should yield identical bytes", func() {
			again, err := cleaning.Clean(cleaned)
			So(err, ShouldBeNil)
			So(string(again), ShouldEqual, string(cleaned))
		})
	})

	Convey("Given generated records", t, func() {
		g := generator.New(generator.WithSeed(11), generator.WithClock(func() time.Time {
			return time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)
		}))
		batch, err := g.Batch(50)
		So(err, ShouldBeNil)

		Convey("Then each cleans into a typed record with the same content", func() {
			for _, raw := range batch {
				var before model.LogRecord
				So(json.Unmarshal(raw, &before), ShouldBeNil)

				cleaned, err := cleaning.Clean(raw)
				So(err, ShouldBeNil)
				var after model.CleanedLogRecord
				So(json.Unmarshal(cleaned, &after), ShouldBeNil)

				So(after.IPAddress, ShouldEqual, model.AnonymizedAddress)
				before.IPAddress = model.AnonymizedAddress
				So(after, ShouldResemble, before)

				again, err := cleaning.Clean(cleaned)
				So(err, ShouldBeNil)
				So(string(again), ShouldEqual, string(cleaned))
			}
		})
	})

	Convey("Given records that cannot be cleaned", t, func() {
		cases := []struct{ name, raw string }{
			{"non-numeric string", `{"num_users":"many","num_unique_visitors":1,"visit_duration":1,"page_views_per_visit":1,"http_errors":1}`},
			{"fractional string", `{"num_users":"5.7","num_unique_visitors":1,"visit_duration":1,"page_views_per_visit":1,"http_errors":1}`},
			{"null value", `{"num_users":1,"num_unique_visitors":null,"visit_duration":1,"page_views_per_visit":1,"http_errors":1}`},
			{"array value", `{"num_users":1,"num_unique_visitors":1,"visit_duration":[1],"page_views_per_visit":1,"http_errors":1}`},
			{"number above the int range", `{"num_users":9223372036854775808,"num_unique_visitors":1,"visit_duration":1,"page_views_per_visit":1,"http_errors":1}`},
			{"number below the int range", `{"num_users":1,"num_unique_visitors":-9223372036854775809,"visit_duration":1,"page_views_per_visit":1,"http_errors":1}`},
			{"exponent overflow", `{"num_users":1,"num_unique_visitors":1,"visit_duration":1e300,"page_views_per_visit":1,"http_errors":1}`},
			{"missing field", `{"num_users":1,"num_unique_visitors":1,"visit_duration":1,"page_views_per_visit":1}`},
		}
		for _, tc := range cases {
			Convey("When the record has a "+tc.name, func() {
				_, err := cleaning.Clean(model.RawRecord(tc.raw))
				So(errors.Is(err, cleaning.ErrCoerce), ShouldBeTrue)
			})
		}

		Convey("When the record is not a JSON object", func() {
			_, err := cleaning.Clean(model.RawRecord(`[1,2,3]`))
			So(errors.Is(err, cleaning.ErrMalformed), ShouldBeTrue)

			_, err = cleaning.Clean(model.RawRecord(`{"num_users":`))
			So(errors.Is(err, cleaning.ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestCleanAll(t *testing.T) {
	Convey("Given a mix of valid and malformed records", t, func() {
		So(logger.Init(), ShouldBeNil)
		c := cleaning.NewCleaner(logger.Get())

		mk := func(users string) model.RawRecord {
			return model.RawRecord(`{"ip_address":"1.1.1.1","num_users":` + users +
				`,"num_unique_visitors":1,"visit_duration":10,"page_views_per_visit":1,"http_errors":2}`)
		}
		input := []model.RawRecord{mk("1"), mk(`"x"`), mk("3"), mk("null"), mk(`"5"`)}

		Convey("When cleaning the snapshot", func() {
			out := c.CleanAll(context.Background(), input)

			Convey("Then exactly the malformed records should be dropped in order", func() {
				So(out, ShouldHaveLength, 3)
				So(decode(out[0])["num_users"], ShouldEqual, 1.0)
				So(decode(out[1])["num_users"], ShouldEqual, 3.0)
				So(decode(out[2])["num_users"], ShouldEqual, 5.0)
			})

			Convey("Then the input should not be modified", func() {
				So(string(input[0]), ShouldContainSubstring, "1.1.1.1")
			})
		})

		Convey("When cleaning an empty snapshot", func() {
			So(c.CleanAll(context.Background(), nil), ShouldBeEmpty)
		})
	})
}
