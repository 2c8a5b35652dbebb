package competition

import (
	"net/http"

	"bitebase/internal/apperr"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// POST /admin/competition/recompute
// An empty body recomputes every market.
func (h *Handler) Recompute(c *gin.Context) {
	var req struct {
		City        string `json:"city"`
		CuisineType string `json:"cuisine_type"`
	}

	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
	}

	if req.City == "" && req.CuisineType == "" {
		updated, err := h.service.RecomputeAll(c.Request.Context())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "updated": updated})
		return
	}

	if req.City == "" || req.CuisineType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city and cuisine_type required"})
		return
	}

	updated, err := h.service.RecomputeSnapshot(
		c.Request.Context(),
		req.City,
		req.CuisineType,
	)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	status := "ok"
	if !updated {
		status = "skipped"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// GET /competition/insights
func (h *Handler) Get(c *gin.Context) {
	city := c.Query("city")
	cuisine := c.Query("cuisine_type")

	if city == "" || cuisine == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "city and cuisine_type required",
		})
		return
	}

	snapshot, err := h.service.GetSnapshot(
		c.Request.Context(),
		city,
		cuisine,
	)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
