package restaurant

import (
	"context"

	"bitebase/internal/geo"
)

type Repository interface {
	// core
	Create(ctx context.Context, restaurant *Restaurant) error
	GetByID(ctx context.Context, id int) (*Restaurant, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Restaurant, error)
	Search(ctx context.Context, f Filter) ([]*Restaurant, error)
	UpdateStatus(ctx context.Context, id int, status string) error

	// proximity; callers refine the box with an exact distance check
	ListInBounds(ctx context.Context, b geo.Bounds) ([]Restaurant, error)

	// ownership
	IsOwner(ctx context.Context, restaurantID int, userID string) (bool, error)
}
