package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bitebase/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			middleware.SetUser(c, id, id+"@example.com", "ANALYST")
		}
	})
	r.POST("/market-analyses/run", h.Run)
	r.GET("/market-analyses", h.List)
	r.GET("/market-analyses/summary", h.Summary)
	r.GET("/market-analyses/:id", h.Get)
	r.GET("/market-analyses/:id/results", h.Results)
	return r
}

func do(r *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	r.ServeHTTP(w, req)
	return w
}

const runBody = `{"title":"Old Town Thai","latitude":13.7563,"longitude":100.5018,"radius":5,"analysisType":"comprehensive","targetCuisine":"Thai"}`

func TestRunHandler_ThenResults(t *testing.T) {
	svc := NewService(NewMemoryRepository(), NewAnalyzer(bangkokFinder(t), DefaultThresholds()), nil)
	r := newTestRouter(svc)

	w := do(r, http.MethodPost, "/market-analyses/run", "user-1", runBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var created MarketAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, StatusCompleted, created.Status)

	w = do(r, http.MethodGet, "/market-analyses/"+created.ID+"/results", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ID      string   `json:"id"`
		Status  Status   `json:"status"`
		Results *Results `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, created.ID, body.ID)
	require.NotNil(t, body.Results)
	assert.Equal(t, "Highly Recommended", body.Results.Overall.Verdict)

	w = do(r, http.MethodGet, "/market-analyses/"+created.ID+"/results", "user-2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRunHandler_Errors(t *testing.T) {
	svc := NewService(NewMemoryRepository(), NewAnalyzer(&flakyFinder{failAfter: 1}, DefaultThresholds()), nil)
	r := newTestRouter(svc)

	w := do(r, http.MethodPost, "/market-analyses/run", "", runBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/market-analyses/run", "user-1", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())

	w = do(r, http.MethodPost, "/market-analyses/run", "user-1", `{"title":"x","latitude":13.7}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "longitude")

	w = do(r, http.MethodPost, "/market-analyses/run", "user-1", runBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var failed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	assert.Equal(t, "failed", failed["status"])
	assert.Contains(t, failed["error"], "finder down")

	w = do(r, http.MethodGet, "/market-analyses/"+failed["id"].(string)+"/results", "user-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)
}

func TestResultsHandler_Running(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, NewAnalyzer(bangkokFinder(t), DefaultThresholds()), nil)
	r := newTestRouter(svc)

	id := uuid.NewString()
	require.NoError(t, repo.Create(context.Background(), &MarketAnalysis{
		ID:           id,
		OwnerID:      "user-1",
		Title:        "Pending",
		AnalysisType: TypeOpportunity,
		Status:       StatusRunning,
		CreatedAt:    time.Now(),
	}))

	w := do(r, http.MethodGet, "/market-analyses/"+id+"/results", "user-1", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"id":"`+id+`","status":"running"}`, w.Body.String())

	w = do(r, http.MethodGet, "/market-analyses/"+uuid.NewString()+"/results", "user-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndSummaryHandlers(t *testing.T) {
	svc := NewService(NewMemoryRepository(), NewAnalyzer(bangkokFinder(t), DefaultThresholds()), nil)
	r := newTestRouter(svc)

	w := do(r, http.MethodGet, "/market-analyses", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"analyses":[]}`, w.Body.String())

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/market-analyses/run", "user-1", runBody).Code)

	w = do(r, http.MethodGet, "/market-analyses/summary", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var s Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, 1, s.Total)
	require.NotNil(t, s.BestOpportunity)
	assert.Equal(t, 10, s.BestOpportunity.Score)
}
