package restaurant

import (
	"time"

	"bitebase/internal/geo"
)

const (
	StatusPending = "pending"
	StatusActive  = "active"
)

type Restaurant struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	CuisineType string    `json:"cuisine_type"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Rating      float64   `json:"rating"`
	PriceRange  int       `json:"price_range"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r Restaurant) Location() geo.Point {
	return geo.Point{Lat: r.Latitude, Lng: r.Longitude}
}

// Nearby is a restaurant returned by a proximity lookup.
type Nearby struct {
	Restaurant
	DistanceKm float64 `json:"distance_km"`
}

// CreateRequest is the payload for POST /restaurants.
type CreateRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	City        string   `json:"city" validate:"required,max=120"`
	CuisineType string   `json:"cuisine_type" validate:"required,max=80"`
	Latitude    *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Rating      float64  `json:"rating" validate:"min=0,max=5"`
	PriceRange  int      `json:"price_range" validate:"min=1,max=4"`
}

// Filter narrows GET /restaurants.
type Filter struct {
	City        string
	CuisineType string
	Query       string
	Limit       int
	Offset      int
}

type CompetitiveInsight struct {
	RestaurantID      int     `json:"restaurant_id"`
	City              string  `json:"city"`
	CuisineType       string  `json:"cuisine_type"`
	Rating            float64 `json:"rating"`
	PriceRange        int     `json:"price_range"`
	MarketAvgRating   float64 `json:"market_avg_rating"`
	MarketMedianPrice float64 `json:"market_median_price_range"`
	SampleSize        int     `json:"sample_size"`
	Positioning       string  `json:"positioning"`
	RatingStanding    string  `json:"rating_standing"`
}
