package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsZeroFields(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, DefaultDBUser, cfg.Database.User)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3.0, cfg.Valuation.BaseMultipleLow)
	assert.Equal(t, 5.0, cfg.Valuation.BaseMultipleHigh)
	assert.Equal(t, 0.20, cfg.Quality.YoYRevenueSwing)
	assert.Equal(t, []string{"TX"}, cfg.FitScore.TargetStates)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db.internal"
	cfg.Cache.TTL = 10 * time.Minute
	cfg.Quality.EarningsFloor = 250000
	ApplyDefaults(cfg)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 250000.0, cfg.Quality.EarningsFloor)
}

func TestApplyDefaultsNilConfigIsNoOp(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
