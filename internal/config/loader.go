// Package config provides configuration loading, defaults, and validation for
// the acquisition engine.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "ACQ"

// newViper builds a pre-configured Viper instance with the engine's standard
// settings: YAML file type, ACQ_ env prefix, automatic env binding, and a
// key replacer that maps "." → "_" so that nested keys like "database.host"
// resolve to "ACQ_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// AutomaticEnv only resolves keys viper already knows about, so every
	// config key must be bound explicitly for file-less loading to work.
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// configKeys enumerates every leaf key in Config, in mapstructure form.
var configKeys = []string{
	"database.enabled", "database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns",
	"database.min_conns", "database.conn_max_lifetime",
	"database.conn_max_idle_time", "database.migration_path",
	"redis.enabled", "redis.addr", "redis.password", "redis.db",
	"redis.pool_size", "redis.min_idle_conns", "redis.dial_timeout",
	"redis.read_timeout", "redis.write_timeout", "redis.key_prefix",
	"cache.ttl", "cache.sweep_interval",
	"inference.min_sde_multiple", "inference.max_sde_multiple",
	"inference.min_revenue_multiple", "inference.max_revenue_multiple",
	"valuation.base_multiple_low", "valuation.base_multiple_high",
	"quality.earnings_floor", "quality.add_back_warn_ratio",
	"quality.add_back_error_ratio", "quality.gross_margin_low",
	"quality.gross_margin_high", "quality.ebitda_margin_low",
	"quality.ebitda_margin_high", "quality.owner_comp_share_of_sde",
	"quality.yoy_revenue_swing", "quality.arithmetic_tolerance",
	"fit_score.target_trades", "fit_score.secondary_trades",
	"fit_score.revenue_sweet_spot_low", "fit_score.revenue_sweet_spot_high",
	"fit_score.target_states", "fit_score.target_metros",
	"fit_score.neighbor_states", "fit_score.ev_sweet_spot_low",
	"fit_score.ev_sweet_spot_high", "fit_score.valuation_multiple",
	"pipeline.multiple_low", "pipeline.multiple_high",
	"metrics.enabled", "metrics.addr", "metrics.path",
	"log.level", "log.format", "log.output", "log.enable_caller",
	"log.enable_stacktrace",
}

// Load reads the YAML file at configPath, merges any ACQ_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from ACQ_* environment variables,
// with no config file required.  This is the preferred loading strategy for
// containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	ACQ_<SECTION>_<FIELD>   e.g.  ACQ_DATABASE_HOST, ACQ_CACHE_TTL
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level and quality
// thresholds; callers are responsible for applying only the safe subset of
// changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			// A bad edit must not push the application into a broken state.
			return
		}
		onChange(cfg)
	})
}
