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

// whatifCmd represents the whatif command
var whatifCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Replay a range under a counterfactual filter",
	Long: `Recomputes the user's core metrics over the trades that survive
the filter and diffs them against the unfiltered baseline.

The simulation audits past decisions only; it never projects future
performance.

Example:
  go run ./cmd/lens whatif --user u-1001 --exclude-emotion fear --days 90
  go run ./cmd/lens whatif --user u-1001 --min-confidence 7`,
	RunE: runWhatIf,
}

var (
	whatifUser           string
	whatifFrom           string
	whatifTo             string
	whatifDays           int
	whatifExcludeEmotion []string
	whatifExcludeTrigger []string
	whatifMinConfidence  int
	whatifSymbols        []string
	whatifStrategies     []string
)

func init() {
	rootCmd.AddCommand(whatifCmd)

	whatifCmd.Flags().StringVar(&whatifUser, "user", "", "user id (required)")
	whatifCmd.Flags().StringVar(&whatifFrom, "from", "", "range start (YYYY-MM-DD)")
	whatifCmd.Flags().StringVar(&whatifTo, "to", "", "range end, exclusive (YYYY-MM-DD)")
	whatifCmd.Flags().IntVar(&whatifDays, "days", 90, "last N days when --from/--to are omitted")
	whatifCmd.Flags().StringSliceVar(&whatifExcludeEmotion, "exclude-emotion", nil, "drop trades carrying these emotion tags")
	whatifCmd.Flags().StringSliceVar(&whatifExcludeTrigger, "exclude-trigger", nil, "drop trades carrying these trigger tags")
	whatifCmd.Flags().IntVar(&whatifMinConfidence, "min-confidence", 0, "drop trades below this recorded confidence (1-10)")
	whatifCmd.Flags().StringSliceVar(&whatifSymbols, "symbols", nil, "restrict to these symbols")
	whatifCmd.Flags().StringSliceVar(&whatifStrategies, "strategies", nil, "restrict to these strategy ids")
	whatifCmd.MarkFlagRequired("user")
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	dateRange, err := resolveRange(whatifFrom, whatifTo, whatifDays)
	if err != nil {
		return err
	}

	filter := analytics.TradeFilter{
		ExcludeEmotionTags: whatifExcludeEmotion,
		ExcludeTriggerTags: whatifExcludeTrigger,
		MinConfidence:      whatifMinConfidence,
		Symbols:            whatifSymbols,
		StrategyIDs:        whatifStrategies,
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	tradeList, err := trades.NewRepository(db.Pool).FetchTrades(ctx, whatifUser, dateRange)
	if err != nil {
		return fmt.Errorf("fetch trades: %w", err)
	}

	result, err := analytics.Simulate(tradeList, filter)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"excluded": result.ExcludedTrades,
	}).Debug("Simulation completed")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
