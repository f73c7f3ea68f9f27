package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment prefixes and config file variables for both binaries.
const (
	ServerEnvPrefix    = "WEBLOGS_"
	ServerConfigEnv    = "WEBLOGS_CONFIG"
	DashboardEnvPrefix = "DASHBOARD_"
	DashboardConfigEnv = "DASHBOARD_CONFIG"
)

// Load builds the service Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if WEBLOGS_CONFIG is set
//  3. env (prefix WEBLOGS_)
func Load(ctx context.Context) (*Config, error) {
	cfg := New()
	if err := load(ctx, ServerEnvPrefix, ServerConfigEnv, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDashboard builds the DashboardConfig the same way, using the
// DASHBOARD_CONFIG file and the DASHBOARD_ env prefix.
func LoadDashboard(ctx context.Context) (*DashboardConfig, error) {
	cfg := NewDashboard()
	if err := load(ctx, DashboardEnvPrefix, DashboardConfigEnv, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load unmarshals the file and env layers over the defaults already in target.
func load(_ context.Context, prefix, fileEnv string, target any) error {
	k := koanf.New(".")

	if path := os.Getenv(fileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like WEBLOGS_BATCH_SIZE -> batch_size (flat keys).
	// Underscores are preserved to match the koanf tags.
	lower := strings.ToLower(prefix)
	envProvider := env.Provider(prefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), lower)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	if err := k.UnmarshalWithConf("", target, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	return nil
}
