package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is everything the API and the CLI read from the environment.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string

	LogLevel  string
	LogFormat string

	RedisHost string
	RedisPort string
	RedisPass string
	RedisDB   int

	R2Endpoint      string
	R2AccessKey     string
	R2SecretKey     string
	R2Bucket        string
	R2PublicBaseURL string

	AnalysisWorkers   int
	AnalysisQueueSize int

	RateLimitRPS   float64
	RateLimitBurst int

	SnapshotCron string

	Scoring Scoring
}

// Scoring holds the tunable thresholds of the opportunity heuristic.
type Scoring struct {
	DensityHigh   float64
	DensityMedium float64
	RatingHigh    float64
	RatingLow     float64
}

// Load reads a .env file outside production, then the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	var errs []error

	cfg := &Config{
		AppEnv:      getString("APP_ENV", "development"),
		Port:        getString("PORT", "8000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(getString("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		LogLevel:  getString("LOG_LEVEL", "info"),
		LogFormat: getString("LOG_FORMAT", "json"),

		RedisHost: os.Getenv("REDIS_HOST"),
		RedisPort: getString("REDIS_PORT", "6379"),
		RedisPass: os.Getenv("REDIS_PASS"),

		R2Endpoint:      os.Getenv("R2_ENDPOINT"),
		R2AccessKey:     os.Getenv("R2_ACCESS_KEY"),
		R2SecretKey:     os.Getenv("R2_SECRET_KEY"),
		R2Bucket:        os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),

		SnapshotCron: getString("SNAPSHOT_CRON", "0 3 * * *"),
	}

	cfg.RedisDB = getInt("REDIS_DB", 0, &errs)
	cfg.AnalysisWorkers = getInt("ANALYSIS_WORKERS", 4, &errs)
	cfg.AnalysisQueueSize = getInt("ANALYSIS_QUEUE_SIZE", 64, &errs)
	cfg.RateLimitRPS = getFloat("RATE_LIMIT_RPS", 2, &errs)
	cfg.RateLimitBurst = getInt("RATE_LIMIT_BURST", 5, &errs)

	cfg.Scoring = Scoring{
		DensityHigh:   getFloat("SCORE_DENSITY_HIGH", 5, &errs),
		DensityMedium: getFloat("SCORE_DENSITY_MEDIUM", 2, &errs),
		RatingHigh:    getFloat("SCORE_RATING_HIGH", 4.5, &errs),
		RatingLow:     getFloat("SCORE_RATING_LOW", 3.5, &errs),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Require fails when any of the named settings is empty.
func (c *Config) Require(names ...string) error {
	values := map[string]string{
		"DATABASE_URL":   c.DatabaseURL,
		"JWT_SECRET":     c.JWTSecret,
		"R2_ENDPOINT":    c.R2Endpoint,
		"R2_BUCKET_NAME": c.R2Bucket,
	}

	var missing []string
	for _, n := range names {
		if values[n] == "" {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing env var(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) RedisEnabled() bool { return c.RedisHost != "" }

func (c *Config) R2Enabled() bool { return c.R2Endpoint != "" && c.R2Bucket != "" }

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func getFloat(key string, def float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
