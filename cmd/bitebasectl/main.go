// Command bitebasectl seeds restaurant data, runs market analyses offline
// and triggers competition snapshot recomputes.
package main

import (
	"fmt"
	"os"

	"bitebase/internal/config"
	"bitebase/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bitebasectl",
	Short: "Operate the BiteBase analytics backend",
	Long: `bitebasectl manages BiteBase data outside the API server.

Available subcommands:
  seed      - Load restaurants from a YAML file into Postgres
  analyze   - Run a market analysis and print the result as JSON
  recompute - Rebuild competition snapshots`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logging.Init(logging.Config{Level: level, Format: "console"})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(seedCmd, analyzeCmd, recomputeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
