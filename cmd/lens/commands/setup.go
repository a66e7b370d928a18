package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/tradelens/backend/internal/analyticsconfig"
	"github.com/tradelens/backend/internal/contracts"
	"github.com/tradelens/backend/pkg/config"
	"github.com/tradelens/backend/pkg/logger"
)

// loadProfile loads the analytics YAML profile and its hash. A missing
// file falls back to built-in defaults; a malformed file is fatal.
func loadProfile(cfg *config.Config, log *logger.Logger) (*analyticsconfig.Config, string, error) {
	profile, _, err := analyticsconfig.Load(cfg.Analytics.ProfilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("path", cfg.Analytics.ProfilePath).Warn("Analytics profile not found, using defaults")
			profile = analyticsconfig.Default()
		} else {
			return nil, "", fmt.Errorf("load analytics profile: %w", err)
		}
	}

	hash, err := analyticsconfig.Hash(profile)
	if err != nil {
		return nil, "", fmt.Errorf("hash analytics profile: %w", err)
	}
	return profile, hash, nil
}

// resolveRange turns --from/--to or --days flags into a date range
func resolveRange(from, to string, days int) (contracts.DateRange, error) {
	if from == "" && to == "" {
		if days < 1 {
			return contracts.DateRange{}, fmt.Errorf("days must be at least 1, got %d", days)
		}
		return contracts.LastNDays(time.Now().UTC(), days), nil
	}

	fromTime, err := time.ParseInLocation("2006-01-02", from, time.UTC)
	if err != nil {
		return contracts.DateRange{}, fmt.Errorf("invalid --from date %q, want YYYY-MM-DD", from)
	}
	toTime, err := time.ParseInLocation("2006-01-02", to, time.UTC)
	if err != nil {
		return contracts.DateRange{}, fmt.Errorf("invalid --to date %q, want YYYY-MM-DD", to)
	}

	dateRange := contracts.DateRange{From: fromTime, To: toTime}
	if err := dateRange.Validate(); err != nil {
		return contracts.DateRange{}, err
	}
	return dateRange, nil
}

// maskPassword masks credentials in the database URL for display
func maskPassword(url string) string {
	if len(url) < 55 {
		if len(url) < 30 {
			return "***"
		}
		return url[:30] + "***"
	}
	return url[:30] + "***" + url[len(url)-25:]
}
