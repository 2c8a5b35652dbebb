package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bitebase/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, a *MarketAnalysis) error
	// Finish persists the terminal state of a run.
	Finish(ctx context.Context, a *MarketAnalysis) error
	Get(ctx context.Context, id string) (*MarketAnalysis, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*MarketAnalysis, error)
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const analysisColumns = `
	id::text,
	owner_id::text,
	title,
	target_location,
	latitude,
	longitude,
	radius_km,
	analysis_type,
	target_cuisine,
	status,
	results,
	error_message,
	report_url,
	created_at,
	completed_at
`

// --------------------------------------------------
// Create (status = running)
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, a *MarketAnalysis) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO market_analyses (
			id,
			owner_id,
			title,
			target_location,
			latitude,
			longitude,
			radius_km,
			analysis_type,
			target_cuisine,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`,
		a.ID,
		a.OwnerID,
		a.Title,
		a.TargetLocation,
		a.Latitude,
		a.Longitude,
		a.Radius,
		a.AnalysisType,
		a.TargetCuisine,
		a.Status,
	).Scan(&a.CreatedAt)
}

// --------------------------------------------------
// Finish (status = completed | failed)
// --------------------------------------------------
func (r *PostgresRepository) Finish(ctx context.Context, a *MarketAnalysis) error {
	var results []byte
	if a.Results != nil {
		b, err := json.Marshal(a.Results)
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		results = b
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE market_analyses
		SET status = $1,
		    results = $2,
		    error_message = $3,
		    report_url = $4,
		    completed_at = $5
		WHERE id = $6
	`,
		a.Status,
		results,
		a.Error,
		a.ReportURL,
		a.CompletedAt,
		a.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s: %w", a.ID, apperr.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*MarketAnalysis, error) {
	a, err := scanAnalysis(r.db.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM market_analyses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, apperr.ErrNotFound)
	}
	return a, err
}

func (r *PostgresRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	limit int,
	offset int,
) ([]*MarketAnalysis, error) {

	rows, err := r.db.Query(ctx, `
		SELECT `+analysisColumns+`
		FROM market_analyses
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*MarketAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnalysis(row pgx.Row) (*MarketAnalysis, error) {
	var (
		a       MarketAnalysis
		results []byte
	)

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Title,
		&a.TargetLocation,
		&a.Latitude,
		&a.Longitude,
		&a.Radius,
		&a.AnalysisType,
		&a.TargetCuisine,
		&a.Status,
		&results,
		&a.Error,
		&a.ReportURL,
		&a.CreatedAt,
		&a.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		a.Results = &Results{}
		if err := json.Unmarshal(results, a.Results); err != nil {
			return nil, fmt.Errorf("decode results for %s: %w", a.ID, err)
		}
	}
	return &a, nil
}
