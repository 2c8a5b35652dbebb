package market

import (
	"time"

	"bitebase/internal/geo"
)

type AnalysisType string

const (
	TypeOpportunity   AnalysisType = "opportunity"
	TypeCompetition   AnalysisType = "competition"
	TypeDemographic   AnalysisType = "demographic"
	TypeComprehensive AnalysisType = "comprehensive"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type CompetitionLevel string

const (
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

type MarketPotential string

const (
	PotentialLow    MarketPotential = "low"
	PotentialMedium MarketPotential = "medium"
	PotentialHigh   MarketPotential = "high"
)

// MarketAnalysis is one persisted analysis run. It is written when created
// and once more when it completes or fails.
type MarketAnalysis struct {
	ID             string       `json:"id"`
	OwnerID        string       `json:"ownerId"`
	Title          string       `json:"title"`
	TargetLocation string       `json:"targetLocation"`
	Latitude       float64      `json:"latitude"`
	Longitude      float64      `json:"longitude"`
	Radius         float64      `json:"radius"`
	AnalysisType   AnalysisType `json:"analysisType"`
	TargetCuisine  string       `json:"targetCuisine,omitempty"`
	Status         Status       `json:"status"`
	Results        *Results     `json:"results,omitempty"`
	Error          string       `json:"error,omitempty"`
	ReportURL      string       `json:"reportUrl,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
}

func (a *MarketAnalysis) params() Params {
	return Params{
		Center:        geo.Point{Lat: a.Latitude, Lng: a.Longitude},
		RadiusKm:      a.Radius,
		Type:          a.AnalysisType,
		TargetCuisine: a.TargetCuisine,
	}
}

// Params is the input of a single analyzer run.
type Params struct {
	Center        geo.Point
	RadiusKm      float64
	Type          AnalysisType
	TargetCuisine string
}

type Results struct {
	Opportunity     *OpportunityResult `json:"opportunity,omitempty"`
	Competition     *CompetitionResult `json:"competition,omitempty"`
	Demographic     *DemographicResult `json:"demographic,omitempty"`
	Overall         *OverallResult     `json:"overall,omitempty"`
	Recommendations []string           `json:"recommendations"`
}

type OpportunityResult struct {
	Score           int     `json:"score"`
	CompetitorCount int     `json:"competitorCount"`
	Density         float64 `json:"density"`
	AverageRating   float64 `json:"averageRating"`
}

type Competitor struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	CuisineType string  `json:"cuisineType"`
	Rating      float64 `json:"rating"`
	DistanceKm  float64 `json:"distanceKm"`
}

type CompetitionResult struct {
	Level               CompetitionLevel `json:"level"`
	CompetitorCount     int              `json:"competitorCount"`
	TotalRestaurants    int              `json:"totalRestaurants"`
	AverageRating       float64          `json:"averageRating"`
	CuisineDistribution map[string]int   `json:"cuisineDistribution"`
	NearestCompetitors  []Competitor     `json:"nearestCompetitors"`
}

type DemographicResult struct {
	MarketPotential   MarketPotential `json:"marketPotential"`
	RestaurantCount   int             `json:"restaurantCount"`
	AveragePriceRange float64         `json:"averagePriceRange"`
	PriceDistribution map[int]int     `json:"priceDistribution"`
}

type OverallResult struct {
	Score      float64         `json:"score"`
	Verdict    string          `json:"verdict"`
	Components ScoreComponents `json:"components"`
}

type ScoreComponents struct {
	Opportunity     float64 `json:"opportunity"`
	Competition     float64 `json:"competition"`
	MarketPotential float64 `json:"marketPotential"`
}

// RunRequest is the body of POST /market-analyses/run.
type RunRequest struct {
	Title          string       `json:"title" validate:"required,max=200"`
	TargetLocation string       `json:"targetLocation" validate:"max=255"`
	Latitude       *float64     `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude      *float64     `json:"longitude" validate:"required,min=-180,max=180"`
	Radius         float64      `json:"radius" validate:"gt=0,lte=50"`
	AnalysisType   AnalysisType `json:"analysisType" validate:"oneof=opportunity competition demographic comprehensive"`
	TargetCuisine  string       `json:"targetCuisine" validate:"max=80"`
	Async          bool         `json:"async"`
}
