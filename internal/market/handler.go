package market

import (
	"net/http"
	"strconv"

	"bitebase/internal/apperr"
	"bitebase/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// POST /market-analyses/run
// --------------------------------------------------
func (h *Handler) Run(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	analysis, err := h.service.Run(c.Request.Context(), req, userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	switch {
	case analysis.Status == StatusFailed:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  analysis.Error,
			"id":     analysis.ID,
			"status": analysis.Status,
		})
	case analysis.Status == StatusRunning:
		c.JSON(http.StatusAccepted, analysis)
	default:
		c.JSON(http.StatusCreated, analysis)
	}
}

// --------------------------------------------------
// GET /market-analyses
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	analyses, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if analyses == nil {
		analyses = []*MarketAnalysis{}
	}

	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// --------------------------------------------------
// GET /market-analyses/summary
// --------------------------------------------------
func (h *Handler) Summary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// --------------------------------------------------
// GET /market-analyses/:id
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	analysis, err := h.service.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// --------------------------------------------------
// GET /market-analyses/:id/results
// --------------------------------------------------
func (h *Handler) Results(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	analysis, err := h.service.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	switch analysis.Status {
	case StatusRunning:
		c.JSON(http.StatusAccepted, gin.H{
			"id":     analysis.ID,
			"status": analysis.Status,
		})
	case StatusFailed:
		c.JSON(http.StatusOK, gin.H{
			"id":     analysis.ID,
			"status": analysis.Status,
			"error":  analysis.Error,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"id":          analysis.ID,
			"status":      analysis.Status,
			"results":     analysis.Results,
			"completedAt": analysis.CompletedAt,
			"reportUrl":   analysis.ReportURL,
		})
	}
}
