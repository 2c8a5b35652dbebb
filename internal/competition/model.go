package competition

import "time"

// Snapshot is the market aggregate for one (city, cuisine) pair.
type Snapshot struct {
	ID               int       `json:"id"`
	City             string    `json:"city"`
	CuisineType      string    `json:"cuisine_type"`
	AvgRating        float64   `json:"avg_rating"`
	AvgPriceRange    float64   `json:"avg_price_range"`
	MedianPriceRange float64   `json:"median_price_range"`
	SampleSize       int       `json:"sample_size"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Sample is one active restaurant feeding a snapshot.
type Sample struct {
	Rating     float64
	PriceRange int
}

// Pair identifies a snapshot.
type Pair struct {
	City        string `json:"city"`
	CuisineType string `json:"cuisine_type"`
}
