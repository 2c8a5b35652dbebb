package restaurant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bitebase/internal/apperr"
	"bitebase/internal/geo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `
	id,
	name,
	city,
	cuisine_type,
	latitude,
	longitude,
	rating,
	price_range,
	COALESCE(owner_id::text, ''),
	status,
	created_at
`

func scanRestaurant(row pgx.Row, res *Restaurant) error {
	return row.Scan(
		&res.ID,
		&res.Name,
		&res.City,
		&res.CuisineType,
		&res.Latitude,
		&res.Longitude,
		&res.Rating,
		&res.PriceRange,
		&res.OwnerID,
		&res.Status,
		&res.CreatedAt,
	)
}

// --------------------------------------------------
// Create a new restaurant
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, restaurant *Restaurant) error {
	query := `
		INSERT INTO restaurants (
			name,
			city,
			cuisine_type,
			latitude,
			longitude,
			rating,
			price_range,
			owner_id,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, $9)
		RETURNING id, created_at
	`

	return r.db.QueryRow(
		ctx,
		query,
		restaurant.Name,
		restaurant.City,
		restaurant.CuisineType,
		restaurant.Latitude,
		restaurant.Longitude,
		restaurant.Rating,
		restaurant.PriceRange,
		restaurant.OwnerID,
		restaurant.Status,
	).Scan(&restaurant.ID, &restaurant.CreatedAt)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Restaurant, error) {
	var res Restaurant
	err := scanRestaurant(r.db.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM restaurants WHERE id = $1`, id), &res)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("restaurant %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// --------------------------------------------------
// List restaurants owned by a user
// --------------------------------------------------
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Restaurant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM restaurants
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collect(rows)
}

func (r *PostgresRepository) Search(ctx context.Context, f Filter) ([]*Restaurant, error) {
	var (
		conds = []string{"status = 'active'"}
		args  []any
	)

	if f.City != "" {
		args = append(args, f.City)
		conds = append(conds, fmt.Sprintf("lower(city) = lower($%d)", len(args)))
	}
	if f.CuisineType != "" {
		args = append(args, f.CuisineType)
		conds = append(conds, fmt.Sprintf("lower(cuisine_type) = lower($%d)", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + selectColumns + `
		FROM restaurants
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY rating DESC, id
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collect(rows)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE restaurants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("restaurant %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// --------------------------------------------------
// Bounding-box pre-filter (served by the lat/lng index)
// --------------------------------------------------
func (r *PostgresRepository) ListInBounds(ctx context.Context, b geo.Bounds) ([]Restaurant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM restaurants
		WHERE
			status = 'active'
			AND latitude BETWEEN $1 AND $2
			AND longitude BETWEEN $3 AND $4
	`, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		var res Restaurant
		if err := scanRestaurant(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// --------------------------------------------------
// Ownership check (SECURITY)
// --------------------------------------------------
func (r *PostgresRepository) IsOwner(
	ctx context.Context,
	restaurantID int,
	userID string,
) (bool, error) {

	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM restaurants
			WHERE id = $1
			  AND owner_id::text = $2
		)
	`, restaurantID, userID).Scan(&exists)

	return exists, err
}

func collect(rows pgx.Rows) ([]*Restaurant, error) {
	var restaurants []*Restaurant
	for rows.Next() {
		var res Restaurant
		if err := scanRestaurant(rows, &res); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, &res)
	}
	return restaurants, rows.Err()
}
