package main

import (
	"encoding/json"
	"fmt"

	"bitebase/internal/competition"
	"bitebase/internal/db"
	"bitebase/internal/market"
	"bitebase/internal/restaurant"

	"github.com/spf13/cobra"
)

var analyzeOpts struct {
	file    string
	title   string
	lat     float64
	lng     float64
	radius  float64
	kind    string
	cuisine string
}

// analyzeCmd runs one analysis and prints it. With --file the restaurants
// come from a seed file and nothing is persisted.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a market analysis and print the result",
	Long: `Run a market analysis around a point and print it as JSON.

With --file the analysis runs fully in memory against the seed file.
Without it, restaurants are read from DATABASE_URL (the analysis itself
is still not stored).`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeOpts.file, "file", "f", "", "seed file to analyze against instead of Postgres")
	f.StringVar(&analyzeOpts.title, "title", "cli analysis", "analysis title")
	f.Float64Var(&analyzeOpts.lat, "lat", 0, "center latitude")
	f.Float64Var(&analyzeOpts.lng, "lng", 0, "center longitude")
	f.Float64VarP(&analyzeOpts.radius, "radius", "r", market.DefaultRadiusKm, "radius in km")
	f.StringVarP(&analyzeOpts.kind, "type", "t", string(market.TypeComprehensive), "opportunity|competition|demographic|comprehensive")
	f.StringVarP(&analyzeOpts.cuisine, "cuisine", "c", "", "target cuisine")

	_ = analyzeCmd.MarkFlagRequired("lat")
	_ = analyzeCmd.MarkFlagRequired("lng")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var restaurantRepo restaurant.Repository
	if analyzeOpts.file != "" {
		seed, err := restaurant.ReadSeedFile(analyzeOpts.file)
		if err != nil {
			return err
		}
		mem := restaurant.NewMemoryRepository()
		if _, err := restaurant.NewService(mem, nil, nil).Seed(ctx, seed); err != nil {
			return err
		}
		restaurantRepo = mem
	} else {
		if err := cfg.Require("DATABASE_URL"); err != nil {
			return fmt.Errorf("%w (or pass --file)", err)
		}
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		restaurantRepo = restaurant.NewPostgresRepository(pool)
	}

	finder := restaurant.NewService(restaurantRepo, competition.NewService(competition.NewMemoryStore()), nil)

	th := market.DefaultThresholds()
	th.DensityHigh = cfg.Scoring.DensityHigh
	th.DensityMedium = cfg.Scoring.DensityMedium
	th.RatingHigh = cfg.Scoring.RatingHigh
	th.RatingLow = cfg.Scoring.RatingLow

	svc := market.NewService(market.NewMemoryRepository(), market.NewAnalyzer(finder, th), nil)

	lat, lng := analyzeOpts.lat, analyzeOpts.lng
	analysis, err := svc.Run(ctx, market.RunRequest{
		Title:         analyzeOpts.title,
		Latitude:      &lat,
		Longitude:     &lng,
		Radius:        analyzeOpts.radius,
		AnalysisType:  market.AnalysisType(analyzeOpts.kind),
		TargetCuisine: analyzeOpts.cuisine,
	}, "cli")
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(analysis); err != nil {
		return err
	}

	if analysis.Status == market.StatusFailed {
		return fmt.Errorf("analysis failed: %s", analysis.Error)
	}
	return nil
}
