package main

import (
	"fmt"

	"bitebase/internal/competition"
	"bitebase/internal/db"
	"bitebase/internal/restaurant"

	"github.com/spf13/cobra"
)

var seedFile string

// seedCmd loads a YAML restaurant list into Postgres as active restaurants
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load restaurants from a YAML file",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "data/restaurants.yaml", "seed file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := cfg.Require("DATABASE_URL"); err != nil {
		return err
	}

	restaurants, err := restaurant.ReadSeedFile(seedFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := restaurant.NewService(
		restaurant.NewPostgresRepository(pool),
		competition.NewService(competition.NewRepository(pool)),
		nil,
	)

	n, err := svc.Seed(ctx, restaurants)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d restaurants from %s\n", n, seedFile)
	return nil
}
