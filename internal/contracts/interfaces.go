package contracts

import (
	"context"
)

// TradeRepository supplies a time-ordered, deduplicated set of normalized
// trades for a user and date range.
// ⭐ SSOT: trade fetch interface
// A fetch failure is a fatal precondition for analytics, never silently
// treated as an empty set.
type TradeRepository interface {
	FetchTrades(ctx context.Context, userID string, dateRange DateRange) ([]Trade, error)
}
