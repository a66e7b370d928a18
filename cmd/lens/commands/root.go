package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lens",
	Short: "TradeLens - trade performance and behavioral analytics",
	Long: `TradeLens Unified CLI

Turns a trader's execution history into performance and behavioral
reports: win rates, streaks, drawdown, emotional leak detection,
confidence calibration, heatmaps and what-if simulation.

Usage:
  go run ./cmd/lens [command]

Examples:
  go run ./cmd/lens api
  go run ./cmd/lens analyze --user u-1001 --days 30
  go run ./cmd/lens whatif --user u-1001 --exclude-emotion fear
  go run ./cmd/lens test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
