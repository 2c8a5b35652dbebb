package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitebase/internal/auth"
	"bitebase/internal/cache"
	"bitebase/internal/competition"
	"bitebase/internal/config"
	"bitebase/internal/db"
	"bitebase/internal/logging"
	"bitebase/internal/market"
	"bitebase/internal/restaurant"
	"bitebase/internal/router"
	"bitebase/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger := logging.For("api")

	if err := cfg.Require("DATABASE_URL", "JWT_SECRET"); err != nil {
		logger.Fatal().Err(err).Msg("missing configuration")
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres init failed")
	}
	defer pgDB.Close()

	// ───────────────────────── CACHE (optional) ─────────────────────────
	var nearbyCache cache.Cache = cache.Nop{}
	if cfg.RedisEnabled() {
		client := cache.Open(cfg.RedisHost, cfg.RedisPort, cfg.RedisPass, cfg.RedisDB)
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, nearby cache disabled")
		} else {
			nearbyCache = cache.NewRedisCache(client, "bitebase:")
			logger.Info().Str("host", cfg.RedisHost).Msg("nearby cache enabled")
		}
	}

	// ───────────────────────── STORAGE (optional) ─────────────────────────
	var reports market.ReportStore
	if cfg.R2Enabled() {
		r2Client, err := storage.NewR2Client(ctx, storage.Options{
			Endpoint:      cfg.R2Endpoint,
			AccessKey:     cfg.R2AccessKey,
			SecretKey:     cfg.R2SecretKey,
			Bucket:        cfg.R2Bucket,
			PublicBaseURL: cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("r2 init failed")
		}
		reports = r2Client
	}

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	authService := auth.NewService(auth.NewPostgresUserRepository(pgDB))
	competitionService := competition.NewService(competition.NewRepository(pgDB))

	restaurantService := restaurant.NewService(
		restaurant.NewPostgresRepository(pgDB),
		competitionService,
		nearbyCache,
	)

	thresholds := market.DefaultThresholds()
	thresholds.DensityHigh = cfg.Scoring.DensityHigh
	thresholds.DensityMedium = cfg.Scoring.DensityMedium
	thresholds.RatingHigh = cfg.Scoring.RatingHigh
	thresholds.RatingLow = cfg.Scoring.RatingLow

	marketService := market.NewService(
		market.NewPostgresRepository(pgDB),
		market.NewAnalyzer(restaurantService, thresholds),
		reports,
	)

	// ───────────────────────── WORKERS ─────────────────────────
	marketService.StartWorkers(context.WithoutCancel(ctx), cfg.AnalysisWorkers, cfg.AnalysisQueueSize)
	defer marketService.StopWorkers()

	scheduler, err := competition.StartScheduler(competitionService, cfg.SnapshotCron)
	if err != nil {
		logger.Fatal().Err(err).Str("spec", cfg.SnapshotCron).Msg("invalid SNAPSHOT_CRON")
	}
	defer func() { <-scheduler.Stop().Done() }()

	// ───────────────────────── HTTP ─────────────────────────
	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.NewRouter(router.Deps{
			Auth:           authService,
			Restaurants:    restaurantService,
			Markets:        marketService,
			Competition:    competitionService,
			CORSOrigins:    cfg.CORSOrigins,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
