package analytics

import (
	"fmt"
	"time"

	"github.com/tradelens/backend/internal/contracts"
)

var testRange = contracts.DateRange{
	From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
}

// newTrade builds a valid trade entered at the given hour offset from the
// start of the test range
func newTrade(id string, hourOffset int, pnl float64) contracts.Trade {
	entry := testRange.From.Add(time.Duration(hourOffset) * time.Hour)
	return contracts.Trade{
		ID:         id,
		Symbol:     "AAPL",
		EntryTime:  entry,
		ExitTime:   entry.Add(30 * time.Minute),
		EntryPrice: 100,
		ExitPrice:  100 + pnl,
		Quantity:   1,
		Direction:  contracts.DirectionLong,
		PnL:        pnl,
	}
}

// pnlSequence builds one valid trade per pnl value, one hour apart,
// with ids t1, t2, ...
func pnlSequence(pnls ...float64) []contracts.Trade {
	trades := make([]contracts.Trade, 0, len(pnls))
	for i, pnl := range pnls {
		trades = append(trades, newTrade(fmt.Sprintf("t%d", i+1), i, pnl))
	}
	return trades
}
