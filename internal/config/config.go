// Package config defines configuration structures for both binaries and
// the koanf based loaders that fill them.
//
// Conventions:
//   - New()/NewDashboard() build a config holding the defaults.
//   - Load/LoadDashboard layer defaults, an optional YAML file and env vars.
//   - Validation errors wrap ErrInvalidConfig; loader errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config contains the web log service configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// BatchSize is the number of records generated per fill iteration.
	BatchSize int `koanf:"batch_size"`

	// BatchIntervalMS is the pause between fill iterations.
	BatchIntervalMS int `koanf:"batch_interval_ms"`

	// MaxRecords bounds store retention. Zero keeps every record.
	MaxRecords int `koanf:"max_records"`

	// Seed makes generation reproducible. Zero draws a random seed.
	Seed uint64 `koanf:"seed"`

	// KafkaBrokers is a comma separated broker list. Empty disables publishing.
	KafkaBrokers string `koanf:"kafka_brokers"`

	// KafkaTopic receives one message per generated record.
	KafkaTopic string `koanf:"kafka_topic"`

	// PublishQueueSize bounds the batches waiting to be published.
	PublishQueueSize int `koanf:"publish_queue_size"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":5000",
		BatchSize:        200,
		BatchIntervalMS:  5000,
		MaxRecords:       0,
		Seed:             0,
		KafkaBrokers:     "",
		KafkaTopic:       "web-logs",
		PublishQueueSize: 64,
	}
}

// BatchInterval returns BatchIntervalMS as a duration.
func (c *Config) BatchInterval() time.Duration {
	return time.Duration(c.BatchIntervalMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	case c.BatchIntervalMS < 1:
		return fmt.Errorf("%w: batch_interval_ms must be positive, got %d", ErrInvalidConfig, c.BatchIntervalMS)
	case c.MaxRecords < 0:
		return fmt.Errorf("%w: max_records must not be negative, got %d", ErrInvalidConfig, c.MaxRecords)
	case c.PublishQueueSize < 1:
		return fmt.Errorf("%w: publish_queue_size must be positive, got %d", ErrInvalidConfig, c.PublishQueueSize)
	case c.KafkaBrokers != "" && strings.TrimSpace(c.KafkaTopic) == "":
		return fmt.Errorf("%w: kafka_topic must be set when kafka_brokers is", ErrInvalidConfig)
	}
	return nil
}

// DashboardConfig contains the dashboard client configuration.
type DashboardConfig struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the dashboard HTTP listen address.
	Addr string `koanf:"addr"`

	// APIURL is the cleaned data endpoint of the web log service.
	APIURL string `koanf:"api_url"`

	// CacheTTLMS is how long a successful fetch is reused.
	CacheTTLMS int `koanf:"cache_ttl_ms"`

	// PollIntervalMS is the period of the background refresh loop.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// RequestTimeoutMS bounds a single fetch.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// NewDashboard creates a DashboardConfig holding the defaults.
func NewDashboard() *DashboardConfig {
	return &DashboardConfig{
		LogLevel:         "info",
		Addr:             ":8501",
		APIURL:           "http://localhost:5000/clean_data",
		CacheTTLMS:       60_000,
		PollIntervalMS:   60_000,
		RequestTimeoutMS: 10_000,
	}
}

// CacheTTL returns CacheTTLMS as a duration.
func (c *DashboardConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMS) * time.Millisecond
}

// PollInterval returns PollIntervalMS as a duration.
func (c *DashboardConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *DashboardConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *DashboardConfig) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.APIURL)
	}
	switch {
	case c.CacheTTLMS < 1:
		return fmt.Errorf("%w: cache_ttl_ms must be positive, got %d", ErrInvalidConfig, c.CacheTTLMS)
	case c.PollIntervalMS < 1:
		return fmt.Errorf("%w: poll_interval_ms must be positive, got %d", ErrInvalidConfig, c.PollIntervalMS)
	case c.RequestTimeoutMS < 1:
		return fmt.Errorf("%w: request_timeout_ms must be positive, got %d", ErrInvalidConfig, c.RequestTimeoutMS)
	}
	return nil
}
