package analytics

import (
	"fmt"

	"github.com/tradelens/backend/internal/contracts"
)

// BuildHeatmap groups the trade set two independent ways: by
// (weekday, hour of entry) and by symbol. Cells exist only where trades
// exist (no interpolation or zero-filling) so consumers can tell
// "no trades" apart from "broke even". Cells appear in first-seen order.
//
// Entry times are bucketed in UTC; the ingestion boundary owns timezone
// normalization.
func BuildHeatmap(trades []contracts.Trade) Heatmap {
	return Heatmap{
		ByTimeOfWeek: buildCells(trades, timeOfWeekKey),
		BySymbol:     buildCells(trades, func(t contracts.Trade) string { return t.Symbol }),
	}
}

// timeOfWeekKey formats one (weekday, hour) bucket, e.g. "Mon:09"
func timeOfWeekKey(t contracts.Trade) string {
	entry := t.EntryTime.UTC()
	return fmt.Sprintf("%s:%02d", entry.Weekday().String()[:3], entry.Hour())
}

func buildCells(trades []contracts.Trade, keyOf func(contracts.Trade) string) []HeatmapCell {
	if len(trades) == 0 {
		return nil
	}

	type acc struct {
		count int
		wins  int
		pnl   float64
	}
	groups := make(map[string]*acc)
	order := make([]string, 0)

	for _, t := range trades {
		key := keyOf(t)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		if t.IsWin() {
			g.wins++
		}
		g.pnl += t.PnL
	}

	cells := make([]HeatmapCell, 0, len(order))
	for _, key := range order {
		g := groups[key]
		cells = append(cells, HeatmapCell{
			Key:        key,
			TradeCount: g.count,
			NetPnL:     g.pnl,
			WinRate:    winRateOf(g.wins, g.count),
		})
	}

	return cells
}
