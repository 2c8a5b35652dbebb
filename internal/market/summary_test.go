package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completed(id string, score int, level CompetitionLevel, at time.Time) *MarketAnalysis {
	return &MarketAnalysis{
		ID:           id,
		Title:        "Site " + id,
		AnalysisType: TypeComprehensive,
		Status:       StatusCompleted,
		CreatedAt:    at,
		Results: &Results{
			Opportunity: &OpportunityResult{Score: score},
			Competition: &CompetitionResult{Level: level},
		},
	}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	analyses := []*MarketAnalysis{
		completed("a", 6, CompetitionHigh, base),
		completed("b", 9, CompetitionLow, base.Add(time.Hour)),
		{ID: "c", AnalysisType: TypeOpportunity, Status: StatusFailed, Error: "boom", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "d", AnalysisType: TypeDemographic, Status: StatusRunning, CreatedAt: base.Add(2 * time.Hour)},
		completed("e", 7, CompetitionLow, base.Add(30*time.Minute)),
	}

	s := Summarize(analyses)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, map[Status]int{StatusCompleted: 3, StatusFailed: 1, StatusRunning: 1}, s.ByStatus)
	assert.Equal(t, 3, s.ByType[TypeComprehensive])
	assert.Equal(t, map[CompetitionLevel]int{CompetitionLow: 2, CompetitionHigh: 1}, s.ByCompetitionLevel)
	assert.InDelta(t, 7.33, s.AverageOpportunityScore, 1e-9)

	require.NotNil(t, s.BestOpportunity)
	assert.Equal(t, "b", s.BestOpportunity.AnalysisID)
	assert.Equal(t, []string{"b", "e", "a"}, ids(s.TopLocations))

	require.NotNil(t, s.LastRunAt)
	assert.True(t, s.LastRunAt.Equal(base.Add(3*time.Hour)))
}

func TestSummarize_TopLocationsCapped(t *testing.T) {
	now := time.Now()
	var analyses []*MarketAnalysis
	for i, score := range []int{1, 2, 3, 4, 5, 6, 7} {
		analyses = append(analyses, completed(string(rune('a'+i)), score, CompetitionLow, now))
	}

	s := Summarize(analyses)
	assert.Len(t, s.TopLocations, topLocationCount)
	assert.Equal(t, 7, s.TopLocations[0].Score)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Total)
	assert.Nil(t, s.BestOpportunity)
	assert.Nil(t, s.LastRunAt)
	assert.NotNil(t, s.TopLocations)
}

func ids(ls []LocationScore) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.AnalysisID
	}
	return out
}
