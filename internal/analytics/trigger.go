package analytics

import (
	"github.com/tradelens/backend/internal/contracts"
)

// AnalyzeTriggers aggregates trade outcomes per decision-trigger tag.
// Same multi-membership grouping as the emotion analysis, but purely
// descriptive; triggers carry no leak severity.
func AnalyzeTriggers(trades []contracts.Trade) []TriggerStat {
	groups, order := groupByTags(trades, func(t contracts.Trade) []string { return t.TriggerTags })
	if len(order) == 0 {
		return nil
	}

	stats := make([]TriggerStat, 0, len(order))
	for _, tag := range order {
		g := groups[tag]
		stats = append(stats, TriggerStat{
			Tag:        tag,
			UsageCount: g.count,
			WinRate:    winRateOf(g.wins, g.count),
			NetResult:  g.netPnL,
		})
	}

	return stats
}
