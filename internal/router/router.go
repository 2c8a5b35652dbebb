package router

import (
	"net/http"
	"time"

	"bitebase/internal/auth"
	"bitebase/internal/competition"
	"bitebase/internal/logging"
	"bitebase/internal/market"
	"bitebase/internal/metrics"
	"bitebase/internal/middleware"
	"bitebase/internal/restaurant"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the services the HTTP surface is built from.
type Deps struct {
	Auth        *auth.Service
	Restaurants *restaurant.Service
	Markets     *market.Service
	Competition *competition.Service

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// ───────────────────────── AUTH ─────────────────────────
	authHandler := auth.NewHandler(d.Auth)
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// ───────────────────────── RESTAURANTS ─────────────────────────
	restaurantHandler := restaurant.NewHandler(d.Restaurants)

	r.GET("/restaurants", restaurantHandler.Search)
	r.GET("/restaurants/by-location", restaurantHandler.ByLocation)
	r.GET("/restaurants/:id", restaurantHandler.Get)

	owned := r.Group("/restaurants")
	owned.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleRestaurant, auth.RoleAdmin),
	)
	{
		owned.POST("", restaurantHandler.CreateRestaurant)
		owned.GET("/me", restaurantHandler.ListMyRestaurants)
		owned.GET("/:id/insights", restaurantHandler.GetCompetitionInsight)
	}

	// ───────────────────────── MARKET ANALYSES ─────────────────────────
	marketHandler := market.NewHandler(d.Markets)
	limiter := middleware.NewRateLimiter(d.RateLimitRPS, d.RateLimitBurst)

	analyses := r.Group("/market-analyses")
	analyses.Use(middleware.AuthMiddleware())
	{
		analyses.POST("/run", limiter.Handler(), marketHandler.Run)
		analyses.GET("", marketHandler.List)
		analyses.GET("/summary", marketHandler.Summary)
		analyses.GET("/:id", marketHandler.Get)
		analyses.GET("/:id/results", marketHandler.Results)
	}

	// ───────────────────────── COMPETITION ─────────────────────────
	competitionHandler := competition.NewHandler(d.Competition)
	r.GET("/competition/insights", competitionHandler.Get)

	// ───────────────────────── ADMIN ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		admin.POST("/restaurants/:id/approve", restaurantHandler.ApproveRestaurant)
		admin.POST("/competition/recompute", competitionHandler.Recompute)
	}

	return r
}
