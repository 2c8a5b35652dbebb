package competition

import (
	"context"
	"errors"
	"fmt"

	"bitebase/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is what the snapshot service reads and writes.
type Store interface {
	ListSamples(ctx context.Context, city, cuisine string) ([]Sample, error)
	ListPairs(ctx context.Context) ([]Pair, error)
	UpsertSnapshot(ctx context.Context, s Snapshot) error
	GetSnapshot(ctx context.Context, city, cuisine string) (*Snapshot, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListSamples(
	ctx context.Context,
	city string,
	cuisine string,
) ([]Sample, error) {

	rows, err := r.db.Query(ctx, `
		SELECT rating, price_range
		FROM restaurants
		WHERE
			status = 'active'
			AND lower(city) = lower($1)
			AND lower(cuisine_type) = lower($2)
	`, city, cuisine)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.Rating, &s.PriceRange); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func (r *Repository) ListPairs(ctx context.Context) ([]Pair, error) {
	rows, err := r.db.Query(ctx, `
		SELECT min(city), min(cuisine_type)
		FROM restaurants
		WHERE status = 'active'
		GROUP BY lower(city), lower(cuisine_type)
		ORDER BY lower(city), lower(cuisine_type)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.City, &p.CuisineType); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// Insert or update snapshot for (city, cuisine_type)
func (r *Repository) UpsertSnapshot(
	ctx context.Context,
	s Snapshot,
) error {

	_, err := r.db.Exec(ctx, `
		INSERT INTO competitive_snapshots (
			city,
			cuisine_type,
			avg_rating,
			avg_price_range,
			median_price_range,
			sample_size
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ((lower(city)), (lower(cuisine_type)))
		DO UPDATE SET
			avg_rating = EXCLUDED.avg_rating,
			avg_price_range = EXCLUDED.avg_price_range,
			median_price_range = EXCLUDED.median_price_range,
			sample_size = EXCLUDED.sample_size,
			updated_at = now()
	`,
		s.City,
		s.CuisineType,
		s.AvgRating,
		s.AvgPriceRange,
		s.MedianPriceRange,
		s.SampleSize,
	)

	return err
}

func (r *Repository) GetSnapshot(
	ctx context.Context,
	city string,
	cuisine string,
) (*Snapshot, error) {

	var s Snapshot
	err := r.db.QueryRow(ctx, `
		SELECT
			id,
			city,
			cuisine_type,
			avg_rating,
			avg_price_range,
			median_price_range,
			sample_size,
			created_at,
			updated_at
		FROM competitive_snapshots
		WHERE lower(city) = lower($1) AND lower(cuisine_type) = lower($2)
	`, city, cuisine).Scan(
		&s.ID,
		&s.City,
		&s.CuisineType,
		&s.AvgRating,
		&s.AvgPriceRange,
		&s.MedianPriceRange,
		&s.SampleSize,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s/%s: %w", city, cuisine, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}
