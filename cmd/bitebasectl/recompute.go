package main

import (
	"fmt"

	"bitebase/internal/competition"
	"bitebase/internal/db"

	"github.com/spf13/cobra"
)

var recomputeOpts struct {
	city    string
	cuisine string
}

// recomputeCmd rebuilds competition snapshots, all of them by default
var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild competition snapshots",
	RunE:  runRecompute,
}

func init() {
	recomputeCmd.Flags().StringVar(&recomputeOpts.city, "city", "", "only this city (requires --cuisine)")
	recomputeCmd.Flags().StringVar(&recomputeOpts.cuisine, "cuisine", "", "only this cuisine (requires --city)")
	recomputeCmd.MarkFlagsRequiredTogether("city", "cuisine")
}

func runRecompute(cmd *cobra.Command, args []string) error {
	if err := cfg.Require("DATABASE_URL"); err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := competition.NewService(competition.NewRepository(pool))
	out := cmd.OutOrStdout()

	if recomputeOpts.city == "" {
		n, err := svc.RecomputeAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "recomputed %d snapshots\n", n)
		return nil
	}

	updated, err := svc.RecomputeSnapshot(ctx, recomputeOpts.city, recomputeOpts.cuisine)
	if err != nil {
		return err
	}
	if !updated {
		fmt.Fprintf(out, "skipped %s/%s: fewer than %d restaurants\n",
			recomputeOpts.city, recomputeOpts.cuisine, competition.MinSamples)
		return nil
	}
	fmt.Fprintf(out, "recomputed %s/%s\n", recomputeOpts.city, recomputeOpts.cuisine)
	return nil
}
