package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/funolympics/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars(t)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
				convey.So(cfg.BatchSize, convey.ShouldEqual, 200)
				convey.So(cfg.BatchIntervalMS, convey.ShouldEqual, 5000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars(t)
			t.Setenv("WEBLOGS_ADDR", ":8080")
			t.Setenv("WEBLOGS_BATCH_SIZE", "50")
			t.Setenv("WEBLOGS_BATCH_INTERVAL_MS", "250")
			t.Setenv("WEBLOGS_MAX_RECORDS", "10000")
			t.Setenv("WEBLOGS_SEED", "42")
			t.Setenv("WEBLOGS_KAFKA_BROKERS", "k1:9092,k2:9092")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BatchSize, convey.ShouldEqual, 50)
				convey.So(cfg.BatchIntervalMS, convey.ShouldEqual, 250)
				convey.So(cfg.MaxRecords, convey.ShouldEqual, 10000)
				convey.So(cfg.Seed, convey.ShouldEqual, uint64(42))
				convey.So(cfg.KafkaBrokers, convey.ShouldEqual, "k1:9092,k2:9092")
				convey.So(cfg.KafkaTopic, convey.ShouldEqual, "web-logs")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars(t)
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
batch_size: 25
max_records: 500
log_level: debug
`)
			t.Setenv("WEBLOGS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.BatchSize, convey.ShouldEqual, 25)
				convey.So(cfg.MaxRecords, convey.ShouldEqual, 500)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.BatchIntervalMS, convey.ShouldEqual, 5000)
			})
		})

		convey.Convey("When env and file both set a key", func() {
			clearConfigEnvVars(t)
			t.Setenv("WEBLOGS_CONFIG", createTempConfigFile(t, "batch_size: 25\n"))
			t.Setenv("WEBLOGS_BATCH_SIZE", "75")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BatchSize, convey.ShouldEqual, 75)
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			clearConfigEnvVars(t)
			t.Setenv("WEBLOGS_CONFIG", createTempConfigFile(t, "addr: [unclosed\n"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the YAML file does not exist", func() {
			clearConfigEnvVars(t)
			t.Setenv("WEBLOGS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an env value is not a number", func() {
			clearConfigEnvVars(t)
			t.Setenv("WEBLOGS_BATCH_SIZE", "lots")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the loaded config is invalid", func() {
			clearConfigEnvVars(t)
			t.Setenv("WEBLOGS_BATCH_SIZE", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDashboardConfigLoader(t *testing.T) {
	convey.Convey("Given the dashboard config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading with env overrides", func() {
			clearConfigEnvVars(t)
			t.Setenv("DASHBOARD_API_URL", "http://weblogs:5000/clean_data")
			t.Setenv("DASHBOARD_CACHE_TTL_MS", "1000")
			t.Setenv("WEBLOGS_ADDR", ":1234")

			cfg, err := config.LoadDashboard(ctx)

			convey.Convey("Then only dashboard keys should apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIURL, convey.ShouldEqual, "http://weblogs:5000/clean_data")
				convey.So(cfg.CacheTTLMS, convey.ShouldEqual, 1000)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8501")
			})
		})

		convey.Convey("When loading from a YAML file", func() {
			clearConfigEnvVars(t)
			t.Setenv("DASHBOARD_CONFIG", createTempConfigFile(t, "poll_interval_ms: 2000\n"))

			cfg, err := config.LoadDashboard(ctx)

			convey.Convey("Then file values should apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.PollIntervalMS, convey.ShouldEqual, 2000)
			})
		})

		convey.Convey("When the API URL is invalid", func() {
			clearConfigEnvVars(t)
			t.Setenv("DASHBOARD_API_URL", "not a url")

			_, err := config.LoadDashboard(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// clearConfigEnvVars blanks out every variable the loaders read. t.Setenv
// restores the previous values when the test ends.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.ServerEnvPrefix) || strings.HasPrefix(name, config.DashboardEnvPrefix) {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
