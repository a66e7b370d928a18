package analytics

import (
	"github.com/tradelens/backend/internal/contracts"
)

// AnalyzeStrategies aggregates trade outcomes per strategy/playbook id.
// Trades without a strategy id are excluded from this view; there is no
// synthetic "none" bucket. Groups appear in first-seen order.
func AnalyzeStrategies(trades []contracts.Trade) []StrategyStat {
	groups, order := strategyGroups(trades)
	if len(order) == 0 {
		return nil
	}

	stats := make([]StrategyStat, 0, len(order))
	for _, id := range order {
		stats = append(stats, statOf(id, groups[id]))
	}
	return stats
}

// CompareStrategies returns stats for a caller-selected set of strategy
// ids, preserving the selection order; the output is never re-sorted by
// performance. An id with no trades yields a zero-count stat with
// undefined rates rather than disappearing from the comparison.
func CompareStrategies(trades []contracts.Trade, ids []string) []StrategyStat {
	if len(ids) == 0 {
		return nil
	}

	groups, _ := strategyGroups(trades)

	stats := make([]StrategyStat, 0, len(ids))
	for _, id := range ids {
		g, ok := groups[id]
		if !ok {
			stats = append(stats, StrategyStat{
				StrategyID: id,
				WinRate:    Undefined(ReasonInsufficientData),
				AvgReturn:  Undefined(ReasonInsufficientData),
			})
			continue
		}
		stats = append(stats, statOf(id, g))
	}
	return stats
}

func statOf(id string, g *tagGroup) StrategyStat {
	s := StrategyStat{
		StrategyID: id,
		TradeCount: g.count,
		WinRate:    winRateOf(g.wins, g.count),
		TotalPnL:   g.netPnL,
	}
	if g.count > 0 {
		s.AvgReturn = Defined(g.netPnL / float64(g.count))
	} else {
		s.AvgReturn = Undefined(ReasonInsufficientData)
	}
	return s
}

func strategyGroups(trades []contracts.Trade) (map[string]*tagGroup, []string) {
	groups := make(map[string]*tagGroup)
	order := make([]string, 0)

	for _, t := range trades {
		if t.StrategyID == "" {
			continue
		}
		g, ok := groups[t.StrategyID]
		if !ok {
			g = &tagGroup{}
			groups[t.StrategyID] = g
			order = append(order, t.StrategyID)
		}
		g.count++
		if t.IsWin() {
			g.wins++
		}
		g.netPnL += t.PnL
	}

	return groups, order
}
