package restaurant

import (
	"fmt"
	"net/http"
	"strconv"

	"bitebase/internal/apperr"
	"bitebase/internal/geo"
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
// Create restaurant
// --------------------------------------------------
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	restaurant, err := h.service.CreateRestaurant(c.Request.Context(), req, userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, restaurant)
}

// --------------------------------------------------
// List restaurants owned by user
// --------------------------------------------------
func (h *Handler) ListMyRestaurants(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	restaurants, err := h.service.ListMyRestaurants(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch restaurants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": nonNil(restaurants)})
}

// --------------------------------------------------
// GET /restaurants?city=&cuisine=&q=&limit=&offset=
// --------------------------------------------------
func (h *Handler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	restaurants, err := h.service.Search(c.Request.Context(), Filter{
		City:        c.Query("city"),
		CuisineType: c.Query("cuisine"),
		Query:       c.Query("q"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": nonNil(restaurants)})
}

// --------------------------------------------------
// GET /restaurants/by-location?latitude=&longitude=&radius=
// --------------------------------------------------
func (h *Handler) ByLocation(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("longitude"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required numbers"})
		return
	}

	radius := DefaultRadiusKm
	if raw := c.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius must be a number"})
			return
		}
		radius = r
	}

	center := geo.Point{Lat: lat, Lng: lng}
	nearby, err := h.service.FindNearby(c.Request.Context(), center, radius)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"center":      center,
		"radius_km":   radius,
		"count":       len(nearby),
		"restaurants": nearby,
	})
}

func (h *Handler) Get(c *gin.Context) {
	restaurantID, ok := parseID(c)
	if !ok {
		return
	}

	restaurant, err := h.service.Get(c.Request.Context(), restaurantID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, restaurant)
}

// --------------------------------------------------
// Get competitive insight
// --------------------------------------------------
func (h *Handler) GetCompetitionInsight(c *gin.Context) {
	restaurantID, ok := parseID(c)
	if !ok {
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	insight, err := h.service.GetCompetitiveInsight(
		c.Request.Context(),
		restaurantID,
		userID,
	)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, insight)
}

// to get the restaurant approved by the admin
func (h *Handler) ApproveRestaurant(c *gin.Context) {
	restaurantID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Approve(c.Request.Context(), restaurantID); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "restaurant approved",
		"restaurant_id": restaurantID,
	})
}

func parseID(c *gin.Context) (int, bool) {
	var id int
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return 0, false
	}
	return id, true
}

func nonNil(rs []*Restaurant) []*Restaurant {
	if rs == nil {
		return []*Restaurant{}
	}
	return rs
}
