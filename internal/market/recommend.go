package market

import (
	"fmt"
	"sort"
	"strings"
)

// Recommendations turns whatever parts of r were computed into advice.
func Recommendations(r *Results, p Params, th Thresholds) []string {
	var recs []string

	if o := r.Opportunity; o != nil {
		switch {
		case o.Score >= 8:
			recs = append(recs, fmt.Sprintf(
				"Strong opportunity (score %d/10): competitor density is %.2f per km².", o.Score, o.Density))
		case o.Score <= 4:
			recs = append(recs, fmt.Sprintf(
				"Weak opportunity (score %d/10): consider a wider radius or a different location.", o.Score))
		}
		if o.Density > th.DensityHigh {
			recs = append(recs, "The area is saturated; a differentiated concept or price point is required.")
		}
		if o.CompetitorCount > 0 && o.AverageRating > th.RatingHigh {
			recs = append(recs, fmt.Sprintf(
				"Nearby competitors average %.1f stars; invest in food quality and service to compete.", o.AverageRating))
		}
		if o.CompetitorCount > 0 && o.AverageRating > 0 && o.AverageRating < th.RatingLow {
			recs = append(recs, fmt.Sprintf(
				"Competitors average only %.1f stars; a quality-focused entrant can win share.", o.AverageRating))
		}
	}

	if c := r.Competition; c != nil {
		if p.TargetCuisine != "" && c.CompetitorCount == 0 {
			recs = append(recs, fmt.Sprintf(
				"No %s restaurants within %.1f km: first-mover advantage for this cuisine.", p.TargetCuisine, p.RadiusKm))
		}
		if top, n := topCuisine(c.CuisineDistribution); n > 0 {
			recs = append(recs, fmt.Sprintf("Most common cuisine nearby is %s (%d restaurants).", top, n))
		}
		if c.Level == CompetitionHigh {
			recs = append(recs, "Competition is high; study the nearest competitors' menus and pricing before committing.")
		}
	}

	if d := r.Demographic; d != nil {
		switch d.MarketPotential {
		case PotentialHigh:
			recs = append(recs, "Dining activity in the area indicates high market potential.")
		case PotentialLow:
			recs = append(recs, "Little existing dining activity; validate foot traffic before committing.")
		}
	}

	if o := r.Overall; o != nil {
		recs = append(recs, fmt.Sprintf("Overall: %s (%.1f/10).", o.Verdict, o.Score))
	}

	if recs == nil {
		recs = []string{}
	}
	return recs
}

func topCuisine(dist map[string]int) (string, int) {
	names := make([]string, 0, len(dist))
	for k := range dist {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if dist[names[i]] != dist[names[j]] {
			return dist[names[i]] > dist[names[j]]
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	if len(names) == 0 {
		return "", 0
	}
	return names[0], dist[names[0]]
}
