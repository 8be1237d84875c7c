// Package config provides configuration loading, defaults, and validation for
// the acquisition engine.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultDBHost        = "localhost"
	DefaultDBPort        = 5432
	DefaultDBUser        = "postgres"
	DefaultDBName        = "acqengine"
	DefaultDBMaxConns    = 25
	DefaultMigrationPath = "file://migrations"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "acq:benchmark:"

	DefaultCacheTTL           = 30 * time.Minute
	DefaultCacheSweepInterval = 5 * time.Minute

	DefaultMetricsAddr = ":9090"
	DefaultMetricsPath = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must run after
// unmarshalling and before Validate() so that optional-but-defaulted fields
// are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultMigrationPath
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = DefaultCacheSweepInterval
	}

	// ── Inference ─────────────────────────────────────────────────────────────
	if cfg.Inference.MinSDEMultiple == 0 {
		cfg.Inference.MinSDEMultiple = 1.0
	}
	if cfg.Inference.MaxSDEMultiple == 0 {
		cfg.Inference.MaxSDEMultiple = 12.0
	}
	if cfg.Inference.MinRevenueMultiple == 0 {
		cfg.Inference.MinRevenueMultiple = 0.3
	}
	if cfg.Inference.MaxRevenueMultiple == 0 {
		cfg.Inference.MaxRevenueMultiple = 5.0
	}

	// ── Valuation ─────────────────────────────────────────────────────────────
	if cfg.Valuation.BaseMultipleLow == 0 {
		cfg.Valuation.BaseMultipleLow = 3.0
	}
	if cfg.Valuation.BaseMultipleHigh == 0 {
		cfg.Valuation.BaseMultipleHigh = 5.0
	}

	// ── Quality ───────────────────────────────────────────────────────────────
	if cfg.Quality.EarningsFloor == 0 {
		cfg.Quality.EarningsFloor = 150000
	}
	if cfg.Quality.AddBackWarnRatio == 0 {
		cfg.Quality.AddBackWarnRatio = 0.30
	}
	if cfg.Quality.AddBackErrorRatio == 0 {
		cfg.Quality.AddBackErrorRatio = 0.50
	}
	if cfg.Quality.GrossMarginLow == 0 {
		cfg.Quality.GrossMarginLow = 0.25
	}
	if cfg.Quality.GrossMarginHigh == 0 {
		cfg.Quality.GrossMarginHigh = 0.70
	}
	if cfg.Quality.EBITDAMarginLow == 0 {
		cfg.Quality.EBITDAMarginLow = 0.10
	}
	if cfg.Quality.EBITDAMarginHigh == 0 {
		cfg.Quality.EBITDAMarginHigh = 0.45
	}
	if cfg.Quality.OwnerCompShareOfSDE == 0 {
		cfg.Quality.OwnerCompShareOfSDE = 0.40
	}
	if cfg.Quality.YoYRevenueSwing == 0 {
		cfg.Quality.YoYRevenueSwing = 0.20
	}
	if cfg.Quality.ArithmeticTolerance == 0 {
		cfg.Quality.ArithmeticTolerance = 1.0
	}

	// ── Fit score ─────────────────────────────────────────────────────────────
	if len(cfg.FitScore.TargetTrades) == 0 {
		cfg.FitScore.TargetTrades = []string{"HVAC", "Electrical", "Plumbing"}
	}
	if len(cfg.FitScore.SecondaryTrades) == 0 {
		cfg.FitScore.SecondaryTrades = []string{"Mechanical", "Controls", "Fire Protection"}
	}
	if cfg.FitScore.RevenueSweetSpotLow == 0 {
		cfg.FitScore.RevenueSweetSpotLow = 1000000
	}
	if cfg.FitScore.RevenueSweetSpotHigh == 0 {
		cfg.FitScore.RevenueSweetSpotHigh = 5000000
	}
	if len(cfg.FitScore.TargetStates) == 0 {
		cfg.FitScore.TargetStates = []string{"TX"}
	}
	if len(cfg.FitScore.TargetMetros) == 0 {
		cfg.FitScore.TargetMetros = []string{"Dallas-Fort Worth", "Austin", "San Antonio", "Houston"}
	}
	if len(cfg.FitScore.NeighborStates) == 0 {
		cfg.FitScore.NeighborStates = []string{"OK", "LA", "AR", "NM"}
	}
	if cfg.FitScore.EVSweetSpotLow == 0 {
		cfg.FitScore.EVSweetSpotLow = 1000000
	}
	if cfg.FitScore.EVSweetSpotHigh == 0 {
		cfg.FitScore.EVSweetSpotHigh = 7500000
	}
	if cfg.FitScore.ValuationMultiple == 0 {
		cfg.FitScore.ValuationMultiple = 4.0
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	if cfg.Pipeline.MultipleLow == 0 {
		cfg.Pipeline.MultipleLow = 3.0
	}
	if cfg.Pipeline.MultipleHigh == 0 {
		cfg.Pipeline.MultipleHigh = 5.0
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = DefaultMetricsAddr
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
