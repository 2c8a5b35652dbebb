package market

import (
	"sort"
	"time"
)

const topLocationCount = 5

// Summary is the dashboard view over an owner's analyses.
type Summary struct {
	Total                   int                      `json:"total"`
	ByStatus                map[Status]int           `json:"byStatus"`
	ByType                  map[AnalysisType]int     `json:"byType"`
	ByCompetitionLevel      map[CompetitionLevel]int `json:"byCompetitionLevel"`
	AverageOpportunityScore float64                  `json:"averageOpportunityScore"`
	BestOpportunity         *LocationScore           `json:"bestOpportunity,omitempty"`
	TopLocations            []LocationScore          `json:"topLocations"`
	LastRunAt               *time.Time               `json:"lastRunAt,omitempty"`
}

type LocationScore struct {
	AnalysisID     string  `json:"analysisId"`
	Title          string  `json:"title"`
	TargetLocation string  `json:"targetLocation"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Score          int     `json:"score"`
}

// Summarize aggregates analyses. Only completed runs with an opportunity
// result contribute to scores and rankings.
func Summarize(analyses []*MarketAnalysis) *Summary {
	s := &Summary{
		ByStatus:           make(map[Status]int),
		ByType:             make(map[AnalysisType]int),
		ByCompetitionLevel: make(map[CompetitionLevel]int),
		TopLocations:       []LocationScore{},
	}

	var (
		scored []LocationScore
		sum    int
	)

	for _, a := range analyses {
		s.Total++
		s.ByStatus[a.Status]++
		s.ByType[a.AnalysisType]++

		if s.LastRunAt == nil || a.CreatedAt.After(*s.LastRunAt) {
			t := a.CreatedAt
			s.LastRunAt = &t
		}

		if a.Status != StatusCompleted || a.Results == nil {
			continue
		}
		if c := a.Results.Competition; c != nil {
			s.ByCompetitionLevel[c.Level]++
		}
		if o := a.Results.Opportunity; o != nil {
			sum += o.Score
			scored = append(scored, LocationScore{
				AnalysisID:     a.ID,
				Title:          a.Title,
				TargetLocation: a.TargetLocation,
				Latitude:       a.Latitude,
				Longitude:      a.Longitude,
				Score:          o.Score,
			})
		}
	}

	if len(scored) == 0 {
		return s
	}

	s.AverageOpportunityScore = round(float64(sum)/float64(len(scored)), 2)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	best := scored[0]
	s.BestOpportunity = &best

	if len(scored) > topLocationCount {
		scored = scored[:topLocationCount]
	}
	s.TopLocations = scored
	return s
}
