package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/funolympics/internal/adapters/http/api"
	"github.com/okian/funolympics/internal/adapters/http/swagger"
	app "github.com/okian/funolympics/internal/app"
	"github.com/okian/funolympics/internal/config"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestServiceOptions(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		t.Setenv("WEBLOGS_ADDR", ":8080")
		t.Setenv("WEBLOGS_BATCH_SIZE", "25")
		t.Setenv("WEBLOGS_SEED", "7")
		t.Setenv("WEBLOGS_KAFKA_BROKERS", "")

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
		convey.So(cfg.BatchSize, convey.ShouldEqual, 25)

		convey.Convey("When mapping it onto service options", func() {
			opts := serviceOptions(cfg, logger.Get())

			convey.Convey("Then the seed should be included and kafka left out", func() {
				convey.So(opts, convey.ShouldHaveLength, 6)
				svc := app.New(opts...)
				stats := svc.GetStats()
				convey.So(stats["batchSize"], convey.ShouldEqual, 25)
				convey.So(stats["kafkaEnabled"], convey.ShouldBeFalse)
			})
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		t.Setenv("WEBLOGS_BATCH_SIZE", "0")

		convey.Convey("Then loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the assembled application", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		svc := app.New(app.WithBatchSize(10), app.WithBatchInterval(time.Hour), app.WithSeed(3))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		swagger.Register(ctx, mux)
		api.NewServer(svc, logger.Get()).Register(ctx, mux)
		h := api.Handler(mux)

		convey.Convey("Then the data routes and docs should be served", func() {
			deadline := time.Now().Add(2 * time.Second)
			for svc.WebLogs(ctx).LogCount < 10 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			for _, path := range []string{"/web_logs", "/clean_data", "/stats", "/healthz", "/openapi.yaml"} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop should return when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
