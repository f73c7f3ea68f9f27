package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/funolympics/internal/config"
	"github.com/okian/funolympics/internal/dashboard"
	"github.com/okian/funolympics/internal/dashboard/frame"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const cleanBody = `{"cleaned_data":[` +
	`{"location":"France","timestamp":"2024-03-01T10:00:00","num_unique_visitors":2,"visit_duration":60,"http_errors":1},` +
	`{"location":"Kenya","timestamp":"2024-03-02T10:00:00","num_unique_visitors":3,"visit_duration":180,"http_errors":0}]}`

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags(t *testing.T) {
	convey.Convey("Given dashboard command line flags", t, func() {
		convey.Convey("When none are passed", func() {
			o, err := parseFlags(newFlagSet(), nil)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the defaults should apply", func() {
				convey.So(o.once, convey.ShouldBeFalse)
				convey.So(o.view, convey.ShouldEqual, dashboard.ViewDashboard)
				convey.So(o.format, convey.ShouldEqual, "text")
				q, err := o.query()
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.Filter.Locations, convey.ShouldBeEmpty)
				convey.So(q.Granularity, convey.ShouldEqual, frame.Hourly)
			})
		})

		convey.Convey("When filters are passed", func() {
			o, err := parseFlags(newFlagSet(), []string{
				"-once", "-min-date", "2024-03-01", "-max-date", "2024-03-02",
				"-location", "France, Kenya", "-granularity", "monthly",
			})
			convey.So(err, convey.ShouldBeNil)
			q, err := o.query()

			convey.Convey("Then they should become the query", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.Filter.MinDate.Day(), convey.ShouldEqual, 1)
				convey.So(q.Filter.MaxDate.Day(), convey.ShouldEqual, 2)
				convey.So(q.Filter.Locations, convey.ShouldResemble, []string{"France", "Kenya"})
				convey.So(q.Granularity, convey.ShouldEqual, frame.Monthly)
			})
		})

		convey.Convey("When a date is malformed", func() {
			o, err := parseFlags(newFlagSet(), []string{"-min-date", "yesterday"})
			convey.So(err, convey.ShouldBeNil)
			_, err = o.query()
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRunOnce(t *testing.T) {
	convey.Convey("Given a web log service", t, func() {
		convey.So(logger.Init(logger.WithWriter(io.Discard)), convey.ShouldBeNil)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(cleanBody))
		}))
		defer srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		convey.Convey("When printing the dashboard as JSON", func() {
			o, err := parseFlags(newFlagSet(), []string{"-once", "-url", srv.URL, "-format", "json"})
			convey.So(err, convey.ShouldBeNil)
			var out bytes.Buffer
			convey.So(run(ctx, o, &out), convey.ShouldBeNil)

			convey.Convey("Then the KPIs should reflect both records", func() {
				var v dashboard.View
				convey.So(json.Unmarshal(out.Bytes(), &v), convey.ShouldBeNil)
				convey.So(v.KPIs.TotalVisits, convey.ShouldEqual, 2)
				convey.So(v.KPIs.UniqueVisitors, convey.ShouldEqual, 5)
				convey.So(v.AvgSession, convey.ShouldEqual, "2.00 mins")
				convey.So(v.BounceRate, convey.ShouldEqual, "50.00%")
			})
		})

		convey.Convey("When printing the report as YAML", func() {
			o, err := parseFlags(newFlagSet(), []string{"-once", "-url", srv.URL, "-view", "report", "-format", "yaml"})
			convey.So(err, convey.ShouldBeNil)
			var out bytes.Buffer
			convey.So(run(ctx, o, &out), convey.ShouldBeNil)
			convey.So(out.String(), convey.ShouldContainSubstring, "title: Statistical Report")
		})

		convey.Convey("When the format is unknown", func() {
			o, err := parseFlags(newFlagSet(), []string{"-once", "-url", srv.URL, "-format", "xml"})
			convey.So(err, convey.ShouldBeNil)
			err = run(ctx, o, io.Discard)
			convey.So(errors.Is(err, dashboard.ErrInvalidFormat), convey.ShouldBeTrue)
		})

		convey.Convey("When the url override is not absolute", func() {
			o, err := parseFlags(newFlagSet(), []string{"-once", "-url", "localhost/clean_data"})
			convey.So(err, convey.ShouldBeNil)
			err = run(ctx, o, io.Discard)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
