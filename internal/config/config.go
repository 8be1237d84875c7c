// Package config defines all configuration structures for the acquisition
// engine.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// DatabaseConfig holds PostgreSQL connection parameters for the benchmark
// store.  When Enabled is false commands fall back to the built-in benchmark
// seed and never open a connection.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the shared benchmark
// cache tier.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// CacheConfig holds benchmark-cache tunables.
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// InferenceConfig holds the sanity bounds the inference validation policy
// checks implied multiples against.
type InferenceConfig struct {
	MinSDEMultiple     float64 `mapstructure:"min_sde_multiple"`
	MaxSDEMultiple     float64 `mapstructure:"max_sde_multiple"`
	MinRevenueMultiple float64 `mapstructure:"min_revenue_multiple"`
	MaxRevenueMultiple float64 `mapstructure:"max_revenue_multiple"`
}

// ValuationConfig holds the base multiple range valuation scenarios start
// from.
type ValuationConfig struct {
	BaseMultipleLow  float64 `mapstructure:"base_multiple_low"`
	BaseMultipleHigh float64 `mapstructure:"base_multiple_high"`
}

// QualityConfig holds the quality-check rule thresholds.  Ratios are
// fractions, not percentages.
type QualityConfig struct {
	EarningsFloor       float64 `mapstructure:"earnings_floor"`
	AddBackWarnRatio    float64 `mapstructure:"add_back_warn_ratio"`
	AddBackErrorRatio   float64 `mapstructure:"add_back_error_ratio"`
	GrossMarginLow      float64 `mapstructure:"gross_margin_low"`
	GrossMarginHigh     float64 `mapstructure:"gross_margin_high"`
	EBITDAMarginLow     float64 `mapstructure:"ebitda_margin_low"`
	EBITDAMarginHigh    float64 `mapstructure:"ebitda_margin_high"`
	OwnerCompShareOfSDE float64 `mapstructure:"owner_comp_share_of_sde"`
	YoYRevenueSwing     float64 `mapstructure:"yoy_revenue_swing"`
	ArithmeticTolerance float64 `mapstructure:"arithmetic_tolerance"`
}

// FitScoreConfig holds the acquisition-thesis profile the fit scorer grades
// against.
type FitScoreConfig struct {
	TargetTrades         []string `mapstructure:"target_trades"`
	SecondaryTrades      []string `mapstructure:"secondary_trades"`
	RevenueSweetSpotLow  float64  `mapstructure:"revenue_sweet_spot_low"`
	RevenueSweetSpotHigh float64  `mapstructure:"revenue_sweet_spot_high"`
	TargetStates         []string `mapstructure:"target_states"`
	TargetMetros         []string `mapstructure:"target_metros"`
	NeighborStates       []string `mapstructure:"neighbor_states"`
	EVSweetSpotLow       float64  `mapstructure:"ev_sweet_spot_low"`
	EVSweetSpotHigh      float64  `mapstructure:"ev_sweet_spot_high"`
	ValuationMultiple    float64  `mapstructure:"valuation_multiple"`
}

// PipelineConfig holds the configured multiple range the deal-value
// waterfall applies to EBITDA-based tiers.
type PipelineConfig struct {
	MultipleLow  float64 `mapstructure:"multiple_low"`
	MultipleHigh float64 `mapstructure:"multiple_high"`
}

// MetricsConfig holds the Prometheus exposition endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "text"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the engine.  Every
// infrastructure component and engine reads its settings from the relevant
// sub-struct.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Inference InferenceConfig `mapstructure:"inference"`
	Valuation ValuationConfig `mapstructure:"valuation"`
	Quality   QualityConfig   `mapstructure:"quality"`
	FitScore  FitScoreConfig  `mapstructure:"fit_score"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Cache
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache.ttl must be positive, got %s", c.Cache.TTL)
	}

	// Inference
	if c.Inference.MinSDEMultiple <= 0 || c.Inference.MaxSDEMultiple <= c.Inference.MinSDEMultiple {
		return fmt.Errorf("config: inference SDE multiple bounds [%.2f, %.2f] are not an increasing positive range",
			c.Inference.MinSDEMultiple, c.Inference.MaxSDEMultiple)
	}
	if c.Inference.MinRevenueMultiple <= 0 || c.Inference.MaxRevenueMultiple <= c.Inference.MinRevenueMultiple {
		return fmt.Errorf("config: inference revenue multiple bounds [%.2f, %.2f] are not an increasing positive range",
			c.Inference.MinRevenueMultiple, c.Inference.MaxRevenueMultiple)
	}

	// Valuation
	if c.Valuation.BaseMultipleLow <= 0 || c.Valuation.BaseMultipleHigh < c.Valuation.BaseMultipleLow {
		return fmt.Errorf("config: valuation base multiple range [%.2f, %.2f] is invalid",
			c.Valuation.BaseMultipleLow, c.Valuation.BaseMultipleHigh)
	}

	// Quality
	if c.Quality.AddBackErrorRatio < c.Quality.AddBackWarnRatio {
		return fmt.Errorf("config: quality.add_back_error_ratio %.2f is below the warn ratio %.2f",
			c.Quality.AddBackErrorRatio, c.Quality.AddBackWarnRatio)
	}

	// Pipeline
	if c.Pipeline.MultipleLow <= 0 || c.Pipeline.MultipleHigh < c.Pipeline.MultipleLow {
		return fmt.Errorf("config: pipeline multiple range [%.2f, %.2f] is invalid",
			c.Pipeline.MultipleLow, c.Pipeline.MultipleHigh)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|text", c.Log.Format)
	}

	return nil
}
