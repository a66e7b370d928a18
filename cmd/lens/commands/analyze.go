package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelens/backend/internal/analytics"
	"github.com/tradelens/backend/internal/trades"
	"github.com/tradelens/backend/pkg/config"
	"github.com/tradelens/backend/pkg/database"
	"github.com/tradelens/backend/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute a behavioral summary for one user",
	Long: `Fetches the user's trades for the range and prints the full
behavioral summary as JSON: win rate, profit factor, streaks,
drawdown, emotional leaks, confidence calibration and heatmaps.

Example:
  go run ./cmd/lens analyze --user u-1001 --days 30
  go run ./cmd/lens analyze --user u-1001 --from 2026-01-01 --to 2026-02-01`,
	RunE: runAnalyze,
}

var (
	analyzeUser string
	analyzeFrom string
	analyzeTo   string
	analyzeDays int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeUser, "user", "", "user id (required)")
	analyzeCmd.Flags().StringVar(&analyzeFrom, "from", "", "range start (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeTo, "to", "", "range end, exclusive (YYYY-MM-DD)")
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 30, "last N days when --from/--to are omitted")
	analyzeCmd.MarkFlagRequired("user")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	dateRange, err := resolveRange(analyzeFrom, analyzeTo, analyzeDays)
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	profile, _, err := loadProfile(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	tradeList, err := trades.NewRepository(db.Pool).FetchTrades(ctx, analyzeUser, dateRange)
	if err != nil {
		return fmt.Errorf("fetch trades: %w", err)
	}

	facade := analytics.NewFacade(profile, log)
	summary, err := facade.ComputeSummary(ctx, tradeList, dateRange)
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
