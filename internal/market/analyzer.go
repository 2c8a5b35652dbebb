package market

import (
	"context"
	"fmt"
	"math"
	"strings"

	"bitebase/internal/geo"
	"bitebase/internal/restaurant"

	"golang.org/x/sync/errgroup"
)

const nearestCompetitors = 5

// Finder is the proximity lookup the analyzer runs on.
type Finder interface {
	FindNearby(ctx context.Context, center geo.Point, radiusKm float64) ([]restaurant.Nearby, error)
}

type Analyzer struct {
	finder     Finder
	thresholds Thresholds
}

func NewAnalyzer(finder Finder, th Thresholds) *Analyzer {
	return &Analyzer{finder: finder, thresholds: th}
}

// Run computes the results for p.Type. Any error aborts the whole run.
func (a *Analyzer) Run(ctx context.Context, p Params) (*Results, error) {
	var (
		res Results
		err error
	)

	switch p.Type {
	case TypeOpportunity:
		res.Opportunity, err = a.Opportunity(ctx, p)
	case TypeCompetition:
		res.Competition, err = a.Competition(ctx, p)
	case TypeDemographic:
		res.Demographic, err = a.Demographic(ctx, p)
	case TypeComprehensive:
		err = a.comprehensive(ctx, p, &res)
	default:
		err = fmt.Errorf("unknown analysis type %q", p.Type)
	}
	if err != nil {
		return nil, err
	}

	res.Recommendations = Recommendations(&res, p, a.thresholds)
	return &res, nil
}

// comprehensive fans the three sub-analyses out and waits for all of them.
// The first failure cancels the others and fails the run.
func (a *Analyzer) comprehensive(ctx context.Context, p Params, res *Results) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := a.Opportunity(gctx, p)
		if err != nil {
			return fmt.Errorf("opportunity analysis: %w", err)
		}
		res.Opportunity = r
		return nil
	})
	g.Go(func() error {
		r, err := a.Competition(gctx, p)
		if err != nil {
			return fmt.Errorf("competition analysis: %w", err)
		}
		res.Competition = r
		return nil
	})
	g.Go(func() error {
		r, err := a.Demographic(gctx, p)
		if err != nil {
			return fmt.Errorf("demographic analysis: %w", err)
		}
		res.Demographic = r
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	res.Overall = Overall(res.Opportunity.Score, res.Competition.Level, res.Demographic.MarketPotential)
	return nil
}

func (a *Analyzer) Opportunity(ctx context.Context, p Params) (*OpportunityResult, error) {
	nearby, err := a.finder.FindNearby(ctx, p.Center, p.RadiusKm)
	if err != nil {
		return nil, err
	}

	competitors := filterCuisine(nearby, p.TargetCuisine)
	density := Density(len(competitors), p.RadiusKm)
	mean, rated := MeanRating(ratings(competitors))

	return &OpportunityResult{
		Score:           OpportunityScore(density, mean, rated, a.thresholds),
		CompetitorCount: len(competitors),
		Density:         round(density, 3),
		AverageRating:   round(mean, 2),
	}, nil
}

func (a *Analyzer) Competition(ctx context.Context, p Params) (*CompetitionResult, error) {
	nearby, err := a.finder.FindNearby(ctx, p.Center, p.RadiusKm)
	if err != nil {
		return nil, err
	}

	competitors := filterCuisine(nearby, p.TargetCuisine)
	mean, _ := MeanRating(ratings(competitors))

	cuisines := make([]string, len(nearby))
	for i, n := range nearby {
		cuisines[i] = n.CuisineType
	}

	closest := make([]Competitor, 0, nearestCompetitors)
	for _, n := range competitors {
		if len(closest) == nearestCompetitors {
			break
		}
		closest = append(closest, Competitor{
			ID:          n.ID,
			Name:        n.Name,
			CuisineType: n.CuisineType,
			Rating:      n.Rating,
			DistanceKm:  round(n.DistanceKm, 3),
		})
	}

	return &CompetitionResult{
		Level:               LevelFor(len(competitors), a.thresholds),
		CompetitorCount:     len(competitors),
		TotalRestaurants:    len(nearby),
		AverageRating:       round(mean, 2),
		CuisineDistribution: CuisineDistribution(cuisines),
		NearestCompetitors:  closest,
	}, nil
}

// Demographic estimates demand from existing dining activity: how many
// restaurants the area sustains and at what price level.
func (a *Analyzer) Demographic(ctx context.Context, p Params) (*DemographicResult, error) {
	nearby, err := a.finder.FindNearby(ctx, p.Center, p.RadiusKm)
	if err != nil {
		return nil, err
	}

	prices := make(map[int]int)
	sum, priced := 0, 0
	for _, n := range nearby {
		if n.PriceRange <= 0 {
			continue
		}
		prices[n.PriceRange]++
		sum += n.PriceRange
		priced++
	}

	avg := 0.0
	if priced > 0 {
		avg = float64(sum) / float64(priced)
	}

	return &DemographicResult{
		MarketPotential:   PotentialFor(len(nearby), avg, a.thresholds),
		RestaurantCount:   len(nearby),
		AveragePriceRange: round(avg, 2),
		PriceDistribution: prices,
	}, nil
}

func filterCuisine(nearby []restaurant.Nearby, cuisine string) []restaurant.Nearby {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		return nearby
	}
	out := make([]restaurant.Nearby, 0, len(nearby))
	for _, n := range nearby {
		if strings.EqualFold(strings.TrimSpace(n.CuisineType), cuisine) {
			out = append(out, n)
		}
	}
	return out
}

func ratings(rs []restaurant.Nearby) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.Rating
	}
	return out
}

func round(v float64, places int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
