package db

import (
	"context"
	"fmt"
	"time"

	"bitebase/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens a pool, pings it and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	logger := logging.For("db")
	logger.Info().
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Msg("connected to postgres")

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return db, nil
}

// schema is applied in order; every statement is idempotent.
var schema = []struct {
	name string
	sql  string
}{
	// -------------------------------
	// USERS
	// -------------------------------
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'ANALYST',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`},

	// -------------------------------
	// RESTAURANTS
	// -------------------------------
	{"restaurants", `
		CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			city VARCHAR(120) NOT NULL,
			cuisine_type VARCHAR(80) NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			price_range INT NOT NULL DEFAULT 2,
			owner_id UUID NULL REFERENCES users(id),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`},
	{"restaurants_location_idx", `
		CREATE INDEX IF NOT EXISTS restaurants_location_idx
		ON restaurants (latitude, longitude)
		WHERE status = 'active'
	`},
	{"restaurants_market_idx", `
		CREATE INDEX IF NOT EXISTS restaurants_market_idx
		ON restaurants (lower(city), lower(cuisine_type))
	`},

	// -------------------------------
	// COMPETITIVE SNAPSHOTS
	// -------------------------------
	{"competitive_snapshots", `
		CREATE TABLE IF NOT EXISTS competitive_snapshots (
			id SERIAL PRIMARY KEY,
			city VARCHAR(120) NOT NULL,
			cuisine_type VARCHAR(80) NOT NULL,
			avg_rating DOUBLE PRECISION NOT NULL,
			avg_price_range DOUBLE PRECISION NOT NULL,
			median_price_range DOUBLE PRECISION NOT NULL,
			sample_size INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`},
	{"competitive_snapshots_market_key", `
		CREATE UNIQUE INDEX IF NOT EXISTS competitive_snapshots_market_key
		ON competitive_snapshots (lower(city), lower(cuisine_type))
	`},

	// -------------------------------
	// MARKET ANALYSES
	// -------------------------------
	{"market_analyses", `
		CREATE TABLE IF NOT EXISTS market_analyses (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			title VARCHAR(200) NOT NULL,
			target_location VARCHAR(255) NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			radius_km DOUBLE PRECISION NOT NULL,
			analysis_type VARCHAR(20) NOT NULL,
			target_cuisine VARCHAR(80) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'running',
			results JSONB NULL,
			error_message TEXT NOT NULL DEFAULT '',
			report_url VARCHAR(500) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			completed_at TIMESTAMPTZ NULL
		)
	`},
	{"market_analyses_owner_idx", `
		CREATE INDEX IF NOT EXISTS market_analyses_owner_idx
		ON market_analyses (owner_id, created_at DESC)
	`},
}

// InitSchema creates or updates the database schema.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("%s: %w", stmt.name, err)
		}
	}

	logger := logging.For("db")
	logger.Info().Int("statements", len(schema)).Msg("schema initialized")
	return nil
}
