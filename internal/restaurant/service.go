package restaurant

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"bitebase/internal/apperr"
	"bitebase/internal/cache"
	"bitebase/internal/competition"
	"bitebase/internal/geo"
	"bitebase/internal/logging"
	"bitebase/internal/metrics"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultRadiusKm = 5.0
	MaxRadiusKm     = 50.0

	DefaultPageSize = 20
	MaxPageSize     = 100

	nearbyTTL = 5 * time.Minute
)

// SnapshotReader is the slice of the competition service insights need.
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, city, cuisine string) (*competition.Snapshot, error)
}

type Service struct {
	repo      Repository
	snapshots SnapshotReader
	cache     cache.Cache
	validate  *validator.Validate
}

func NewService(
	repo Repository,
	snapshots SnapshotReader,
	c cache.Cache,
) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{
		repo:      repo,
		snapshots: snapshots,
		cache:     c,
		validate:  apperr.NewValidator(),
	}
}

// --------------------------------------------------
// Create restaurant
// --------------------------------------------------
func (s *Service) CreateRestaurant(
	ctx context.Context,
	req CreateRequest,
	ownerID string,
) (*Restaurant, error) {

	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Invalid(err)
	}

	restaurant := &Restaurant{
		Name:        req.Name,
		City:        req.City,
		CuisineType: req.CuisineType,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Rating:      req.Rating,
		PriceRange:  req.PriceRange,
		OwnerID:     ownerID,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, restaurant); err != nil {
		return nil, err
	}

	return restaurant, nil
}

// Import stores an already-vetted restaurant as active. Used by seeding.
func (s *Service) Import(ctx context.Context, restaurant *Restaurant) error {
	if restaurant.Name == "" || restaurant.City == "" || restaurant.CuisineType == "" {
		return fmt.Errorf("%w: name, city and cuisine_type are required", apperr.ErrValidation)
	}
	if err := restaurant.Location().Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", apperr.ErrValidation, restaurant.Name, err)
	}
	restaurant.Status = StatusActive
	return s.repo.Create(ctx, restaurant)
}

func (s *Service) Get(ctx context.Context, id int) (*Restaurant, error) {
	return s.repo.GetByID(ctx, id)
}

// --------------------------------------------------
// List restaurants owned by user
// --------------------------------------------------
func (s *Service) ListMyRestaurants(ctx context.Context, ownerID string) ([]*Restaurant, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]*Restaurant, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.Search(ctx, f)
}

// Approve makes a pending restaurant visible to search and analyses.
func (s *Service) Approve(ctx context.Context, id int) error {
	return s.repo.UpdateStatus(ctx, id, StatusActive)
}

// --------------------------------------------------
// Proximity lookup
// --------------------------------------------------

// FindNearby returns active restaurants within radiusKm of center, nearest
// first.
func (s *Service) FindNearby(
	ctx context.Context,
	center geo.Point,
	radiusKm float64,
) ([]Nearby, error) {

	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("%w: latitude must be in [-90,90] and longitude in [-180,180]", apperr.ErrValidation)
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 || radiusKm > MaxRadiusKm {
		return nil, fmt.Errorf("%w: radius must be between 0 and %g km", apperr.ErrValidation, MaxRadiusKm)
	}

	metrics.NearbyLookupsTotal.Inc()
	logger := logging.For("restaurant")

	cacheKey := fmt.Sprintf("nearby:%.5f:%.5f:%.3f", center.Lat, center.Lng, radiusKm)
	var cached []Nearby
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		metrics.CacheHitsTotal.Inc()
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warn().Err(err).Msg("nearby cache read failed")
	}
	metrics.CacheMissesTotal.Inc()

	candidates, err := s.repo.ListInBounds(ctx, geo.BoundsAround(center, radiusKm))
	if err != nil {
		return nil, err
	}

	hits := geo.Within(center, radiusKm, candidates)
	out := make([]Nearby, len(hits))
	for i, h := range hits {
		out[i] = Nearby{Restaurant: h.Item, DistanceKm: h.DistanceKm}
	}

	if err := s.cache.Set(ctx, cacheKey, out, nearbyTTL); err != nil {
		logger.Warn().Err(err).Msg("nearby cache write failed")
	}

	return out, nil
}

// --------------------------------------------------
// Competitive insight (READ ONLY)
// --------------------------------------------------
func (s *Service) GetCompetitiveInsight(
	ctx context.Context,
	restaurantID int,
	userID string,
) (*CompetitiveInsight, error) {

	// 🔒 Ownership enforced here
	isOwner, err := s.repo.IsOwner(ctx, restaurantID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, fmt.Errorf("restaurant %d: %w", restaurantID, apperr.ErrForbidden)
	}

	res, err := s.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.GetSnapshot(ctx, res.City, res.CuisineType)
	if err != nil {
		return nil, err
	}

	return &CompetitiveInsight{
		RestaurantID:      restaurantID,
		City:              res.City,
		CuisineType:       res.CuisineType,
		Rating:            res.Rating,
		PriceRange:        res.PriceRange,
		MarketAvgRating:   snapshot.AvgRating,
		MarketMedianPrice: snapshot.MedianPriceRange,
		SampleSize:        snapshot.SampleSize,
		Positioning:       determinePosition(float64(res.PriceRange), snapshot.MedianPriceRange),
		RatingStanding:    ratingStanding(res.Rating, snapshot.AvgRating),
	}, nil
}

// --------------------------------------------------
// Positioning logic
// --------------------------------------------------
func determinePosition(price, median float64) string {
	switch {
	case price < median*0.9:
		return "UNDER_MARKET"
	case price > median*1.1:
		return "PREMIUM"
	default:
		return "MARKET_AVERAGE"
	}
}

func ratingStanding(rating, avg float64) string {
	switch {
	case rating >= avg+0.25:
		return "ABOVE_MARKET"
	case rating <= avg-0.25:
		return "BELOW_MARKET"
	default:
		return "AT_MARKET"
	}
}
