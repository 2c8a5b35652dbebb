package competition

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bitebase/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore() *MemoryStore {
	store := NewMemoryStore()
	for _, s := range []Sample{
		{Rating: 4.0, PriceRange: 2},
		{Rating: 4.5, PriceRange: 3},
		{Rating: 3.5, PriceRange: 1},
		{Rating: 5.0, PriceRange: 4},
	} {
		store.AddSample("Bangkok", "Thai", s)
	}
	store.AddSample("Bangkok", "Italian", Sample{Rating: 4.2, PriceRange: 3})
	return store
}

func TestAggregate(t *testing.T) {
	snap := Aggregate("Bangkok", "Thai", []Sample{
		{Rating: 4.0, PriceRange: 2},
		{Rating: 4.5, PriceRange: 3},
		{Rating: 3.5, PriceRange: 1},
	})

	assert.InDelta(t, 4.0, snap.AvgRating, 1e-9)
	assert.InDelta(t, 2.0, snap.AvgPriceRange, 1e-9)
	assert.Equal(t, 2.0, snap.MedianPriceRange)
	assert.Equal(t, 3, snap.SampleSize)
}

func TestAggregate_EvenMedian(t *testing.T) {
	snap := Aggregate("x", "y", []Sample{{PriceRange: 1}, {PriceRange: 4}, {PriceRange: 2}, {PriceRange: 3}})
	assert.Equal(t, 2.5, snap.MedianPriceRange)
}

func TestAggregate_IgnoresUnrated(t *testing.T) {
	snap := Aggregate("Bangkok", "Thai", []Sample{
		{Rating: 4.0, PriceRange: 2},
		{Rating: 0, PriceRange: 1},
		{Rating: 5.0, PriceRange: 3},
	})

	assert.InDelta(t, 4.5, snap.AvgRating, 1e-9)
	assert.InDelta(t, 2.0, snap.AvgPriceRange, 1e-9)
	assert.Equal(t, 3, snap.SampleSize)

	snap = Aggregate("x", "y", []Sample{{PriceRange: 2}, {PriceRange: 2}, {PriceRange: 2}})
	assert.Equal(t, 0.0, snap.AvgRating)
}

func TestRecomputeAll_CaseInsensitiveMarkets(t *testing.T) {
	store := NewMemoryStore()
	store.AddSample("Bangkok", "Thai", Sample{Rating: 4.0, PriceRange: 2})
	store.AddSample("bangkok", "thai", Sample{Rating: 4.5, PriceRange: 3})
	store.AddSample("BANGKOK", "Thai", Sample{Rating: 3.5, PriceRange: 1})
	svc := NewService(store)
	ctx := context.Background()

	pairs, err := store.ListPairs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{City: "Bangkok", CuisineType: "Thai"}}, pairs)

	updated, err := svc.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	snap, err := svc.GetSnapshot(ctx, "bangkok", "THAI")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.SampleSize)
}

func TestRecomputeSnapshot(t *testing.T) {
	svc := NewService(seededStore())
	ctx := context.Background()

	updated, err := svc.RecomputeSnapshot(ctx, "bangkok", "thai")
	require.NoError(t, err)
	assert.True(t, updated)

	snap, err := svc.GetSnapshot(ctx, "Bangkok", "Thai")
	require.NoError(t, err)
	assert.Equal(t, 4, snap.SampleSize)
	assert.Equal(t, 2.5, snap.MedianPriceRange)
}

func TestRecomputeSnapshot_TooFewSamples(t *testing.T) {
	svc := NewService(seededStore())
	ctx := context.Background()

	updated, err := svc.RecomputeSnapshot(ctx, "Bangkok", "Italian")
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = svc.GetSnapshot(ctx, "Bangkok", "Italian")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecomputeAll(t *testing.T) {
	svc := NewService(seededStore())

	updated, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}

func TestHandler_GetAndRecompute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(seededStore()))

	r := gin.New()
	r.GET("/competition/insights", h.Get)
	r.POST("/admin/competition/recompute", h.Recompute)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/competition/insights?city=Bangkok&cuisine_type=Thai", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/competition/recompute",
		strings.NewReader(`{"city":"Bangkok","cuisine_type":"Thai"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/competition/insights?city=Bangkok&cuisine_type=Thai", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sample_size":4`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/competition/insights?city=Bangkok", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RecomputeAllWithEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(seededStore()))

	r := gin.New()
	r.POST("/admin/competition/recompute", h.Recompute)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/competition/recompute", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","updated":1}`, w.Body.String())
}

func TestStartScheduler_InvalidSpec(t *testing.T) {
	_, err := StartScheduler(NewService(NewMemoryStore()), "not a cron spec")
	assert.Error(t, err)
}
