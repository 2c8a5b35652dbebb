package market

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"bitebase/internal/geo"
	"bitebase/internal/restaurant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bangkok = geo.Point{Lat: 13.7563, Lng: 100.5018}

// bangkokFinder returns a restaurant service seeded with central Bangkok.
func bangkokFinder(t *testing.T) *restaurant.Service {
	t.Helper()

	svc := restaurant.NewService(restaurant.NewMemoryRepository(), nil, nil)
	_, err := svc.Seed(context.Background(), []restaurant.Restaurant{
		{Name: "Thipsamai", City: "Bangkok", CuisineType: "Thai", Latitude: 13.7527, Longitude: 100.5048, Rating: 4.3, PriceRange: 2},
		{Name: "Jay Fai", City: "Bangkok", CuisineType: "Thai", Latitude: 13.7525, Longitude: 100.5047, Rating: 4.6, PriceRange: 4},
		{Name: "Krua Apsorn", City: "Bangkok", CuisineType: "Thai", Latitude: 13.7576, Longitude: 100.5013, Rating: 4.5, PriceRange: 2},
		{Name: "Pizza Massilia", City: "Bangkok", CuisineType: "Italian", Latitude: 13.7370, Longitude: 100.5600, Rating: 4.4, PriceRange: 3},
	})
	require.NoError(t, err)
	return svc
}

// flakyFinder fails every call after the first failAfter.
type flakyFinder struct {
	calls     atomic.Int32
	failAfter int32
	items     []restaurant.Nearby
}

func (f *flakyFinder) FindNearby(context.Context, geo.Point, float64) ([]restaurant.Nearby, error) {
	if f.calls.Add(1) > f.failAfter {
		return nil, errors.New("finder down")
	}
	return f.items, nil
}

func TestAnalyzer_Comprehensive(t *testing.T) {
	a := NewAnalyzer(bangkokFinder(t), DefaultThresholds())

	res, err := a.Run(context.Background(), Params{
		Center:        bangkok,
		RadiusKm:      5,
		Type:          TypeComprehensive,
		TargetCuisine: "thai",
	})
	require.NoError(t, err)

	require.NotNil(t, res.Opportunity)
	assert.Equal(t, 10, res.Opportunity.Score)
	assert.Equal(t, 3, res.Opportunity.CompetitorCount)
	assert.InDelta(t, 4.47, res.Opportunity.AverageRating, 1e-9)

	require.NotNil(t, res.Competition)
	assert.Equal(t, CompetitionLow, res.Competition.Level)
	assert.Equal(t, 3, res.Competition.TotalRestaurants)
	require.Len(t, res.Competition.NearestCompetitors, 3)
	assert.Equal(t, "Krua Apsorn", res.Competition.NearestCompetitors[0].Name)

	require.NotNil(t, res.Demographic)
	assert.Equal(t, PotentialMedium, res.Demographic.MarketPotential)
	assert.Equal(t, map[int]int{2: 2, 4: 1}, res.Demographic.PriceDistribution)

	require.NotNil(t, res.Overall)
	assert.Equal(t, 8.0, res.Overall.Score)
	assert.Equal(t, "Highly Recommended", res.Overall.Verdict)
	assert.NotEmpty(t, res.Recommendations)
}

func TestAnalyzer_SingleTypes(t *testing.T) {
	a := NewAnalyzer(bangkokFinder(t), DefaultThresholds())
	ctx := context.Background()

	res, err := a.Run(ctx, Params{Center: bangkok, RadiusKm: 5, Type: TypeOpportunity})
	require.NoError(t, err)
	assert.NotNil(t, res.Opportunity)
	assert.Nil(t, res.Competition)
	assert.Nil(t, res.Demographic)
	assert.Nil(t, res.Overall)

	res, err = a.Run(ctx, Params{Center: bangkok, RadiusKm: 5, Type: TypeCompetition, TargetCuisine: "Korean"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Competition.CompetitorCount)
	assert.Empty(t, res.Competition.NearestCompetitors)
	assert.Equal(t, map[string]int{"Thai": 3}, res.Competition.CuisineDistribution)

	res, err = a.Run(ctx, Params{Center: bangkok, RadiusKm: 5, Type: TypeDemographic})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Demographic.RestaurantCount)
}

func TestAnalyzer_UnknownType(t *testing.T) {
	a := NewAnalyzer(&flakyFinder{failAfter: 10}, DefaultThresholds())

	_, err := a.Run(context.Background(), Params{Type: "weather"})
	assert.ErrorContains(t, err, `unknown analysis type "weather"`)
}

func TestAnalyzer_ComprehensiveFailsAsAWhole(t *testing.T) {
	finder := &flakyFinder{failAfter: 1}
	a := NewAnalyzer(finder, DefaultThresholds())

	res, err := a.Run(context.Background(), Params{Center: bangkok, RadiusKm: 5, Type: TypeComprehensive})
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "finder down")
	assert.ErrorContains(t, err, "analysis:")
}

func TestAnalyzer_EmptyArea(t *testing.T) {
	a := NewAnalyzer(&flakyFinder{failAfter: 10}, DefaultThresholds())

	res, err := a.Run(context.Background(), Params{Center: bangkok, RadiusKm: 5, Type: TypeComprehensive})
	require.NoError(t, err)

	assert.Equal(t, 10, res.Opportunity.Score)
	assert.Equal(t, 0.0, res.Opportunity.Density)
	assert.Equal(t, PotentialLow, res.Demographic.MarketPotential)
	assert.InDelta(t, 7.0, res.Overall.Score, 1e-9)
	assert.Equal(t, "Recommended", res.Overall.Verdict)
}
