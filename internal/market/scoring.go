package market

import (
	"math"
	"strings"
)

// Thresholds are the knobs of the scoring heuristics.
type Thresholds struct {
	BaseScore int

	DensityHigh          float64 // competitors per km²
	DensityHighPenalty   int
	DensityMedium        float64
	DensityMediumPenalty int

	RatingHigh float64 // strong incumbents make entry harder
	RatingLow  float64

	CompetitionHigh   int // competitor counts above which the level steps up
	CompetitionMedium int

	PotentialHighCount   int
	PotentialMediumCount int
	PotentialHighPrice   float64
	PotentialMediumPrice float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		BaseScore: 10,

		DensityHigh:          5,
		DensityHighPenalty:   3,
		DensityMedium:        2,
		DensityMediumPenalty: 1,

		RatingHigh: 4.5,
		RatingLow:  3.5,

		CompetitionHigh:   10,
		CompetitionMedium: 5,

		PotentialHighCount:   10,
		PotentialMediumCount: 3,
		PotentialHighPrice:   3,
		PotentialMediumPrice: 2,
	}
}

const (
	MinScore = 1
	MaxScore = 10
)

// Density is competitors per km² over the search circle. A non-positive
// radius has no area: zero competitors give 0, anything else +Inf.
func Density(count int, radiusKm float64) float64 {
	if count == 0 {
		return 0
	}
	area := math.Pi * radiusKm * radiusKm
	if area <= 0 {
		return math.Inf(1)
	}
	return float64(count) / area
}

// MeanRating averages positive ratings; unrated (0) entries are ignored.
// ok is false when nothing was rated.
func MeanRating(ratings []float64) (mean float64, ok bool) {
	sum, n := 0.0, 0
	for _, r := range ratings {
		if r > 0 {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// OpportunityScore starts from the base score, takes a density penalty,
// adjusts one point for incumbent quality and clamps to [MinScore, MaxScore].
func OpportunityScore(density, meanRating float64, rated bool, th Thresholds) int {
	score := th.BaseScore

	switch {
	case density > th.DensityHigh:
		score -= th.DensityHighPenalty
	case density > th.DensityMedium:
		score -= th.DensityMediumPenalty
	}

	if rated {
		switch {
		case meanRating > th.RatingHigh:
			score--
		case meanRating < th.RatingLow:
			score++
		}
	}

	return clamp(score, MinScore, MaxScore)
}

func LevelFor(competitors int, th Thresholds) CompetitionLevel {
	switch {
	case competitors > th.CompetitionHigh:
		return CompetitionHigh
	case competitors > th.CompetitionMedium:
		return CompetitionMedium
	default:
		return CompetitionLow
	}
}

func PotentialFor(restaurants int, avgPrice float64, th Thresholds) MarketPotential {
	switch {
	case restaurants >= th.PotentialHighCount || avgPrice >= th.PotentialHighPrice:
		return PotentialHigh
	case restaurants >= th.PotentialMediumCount || avgPrice >= th.PotentialMediumPrice:
		return PotentialMedium
	default:
		return PotentialLow
	}
}

// CompetitionValue maps a level onto the 1–10 scale; less competition is better.
func CompetitionValue(l CompetitionLevel) float64 {
	switch l {
	case CompetitionLow:
		return 8
	case CompetitionMedium:
		return 5
	default:
		return 2
	}
}

func PotentialValue(p MarketPotential) float64 {
	switch p {
	case PotentialHigh:
		return 9
	case PotentialMedium:
		return 6
	default:
		return 3
	}
}

// Overall averages the three component scores.
func Overall(opportunity int, level CompetitionLevel, potential MarketPotential) *OverallResult {
	c := ScoreComponents{
		Opportunity:     float64(opportunity),
		Competition:     CompetitionValue(level),
		MarketPotential: PotentialValue(potential),
	}
	score := (c.Opportunity + c.Competition + c.MarketPotential) / 3

	return &OverallResult{
		Score:      math.Round(score*10) / 10,
		Verdict:    Verdict(score),
		Components: c,
	}
}

func Verdict(score float64) string {
	switch {
	case score > 7:
		return "Highly Recommended"
	case score > 5:
		return "Recommended"
	default:
		return "Consider Alternatives"
	}
}

// CuisineDistribution counts cuisines case-insensitively, labelled by the
// first spelling seen.
func CuisineDistribution(cuisines []string) map[string]int {
	labels := make(map[string]string)
	out := make(map[string]int)

	for _, c := range cuisines {
		c = strings.TrimSpace(c)
		if c == "" {
			c = "Unknown"
		}
		k := strings.ToLower(c)
		label, ok := labels[k]
		if !ok {
			label = c
			labels[k] = c
		}
		out[label]++
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
