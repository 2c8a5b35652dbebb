package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/bitebase")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 4, cfg.AnalysisWorkers)
	assert.Equal(t, 5.0, cfg.Scoring.DensityHigh)
	assert.Equal(t, 2.0, cfg.Scoring.DensityMedium)
	assert.Equal(t, 4.5, cfg.Scoring.RatingHigh)
	assert.Equal(t, 3.5, cfg.Scoring.RatingLow)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.R2Enabled())
	assert.NoError(t, cfg.Require("DATABASE_URL", "JWT_SECRET"))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SCORE_DENSITY_HIGH", "8")
	t.Setenv("ANALYSIS_WORKERS", "2")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8.0, cfg.Scoring.DensityHigh)
	assert.Equal(t, 2, cfg.AnalysisWorkers)
	assert.True(t, cfg.RedisEnabled())
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("RATE_LIMIT_BURST", "lots")

	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_BURST")
}

func TestRequire_Missing(t *testing.T) {
	cfg := &Config{DatabaseURL: "x"}
	err := cfg.Require("DATABASE_URL", "JWT_SECRET")
	assert.EqualError(t, err, "missing env var(s): JWT_SECRET")
}
