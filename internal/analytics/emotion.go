package analytics

import (
	"github.com/tradelens/backend/internal/analyticsconfig"
	"github.com/tradelens/backend/internal/contracts"
)

// AnalyzeEmotions aggregates trade outcomes per emotion tag. A trade with
// several tags contributes to every one of its groups; the groups are not
// a partition. Groups are emitted in first-seen order so the result only
// depends on the (sanitized, chronological) input order.
//
// The impact score measures deviation from business as usual:
// net_pnl − baseline_pnl_per_trade × trade_count, with the baseline taken
// over the whole trade set. An emotion is costly relative to the trader's
// own average, not relative to zero.
func AnalyzeEmotions(trades []contracts.Trade, core CoreMetrics) []EmotionStat {
	groups, order := groupByTags(trades, func(t contracts.Trade) []string { return t.EmotionTags })
	if len(order) == 0 {
		return nil
	}

	baseline := 0.0
	if core.TotalTrades > 0 {
		baseline = core.TotalPnL / float64(core.TotalTrades)
	}

	stats := make([]EmotionStat, 0, len(order))
	for _, tag := range order {
		g := groups[tag]
		stats = append(stats, EmotionStat{
			Tag:         tag,
			TradeCount:  g.count,
			WinRate:     winRateOf(g.wins, g.count),
			NetPnL:      g.netPnL,
			ImpactScore: g.netPnL - baseline*float64(g.count),
		})
	}

	return stats
}

// MostProfitableEmotion returns the group with the highest impact score
// among groups that actually beat the baseline. Ties break to the higher
// trade count, then the lexically smaller tag. Nil when no group has a
// positive impact. A set where every trade shares one tag scores that
// tag at exactly baseline, and reporting it as "most profitable" would be
// fabrication.
func MostProfitableEmotion(stats []EmotionStat) *EmotionStat {
	return pickEmotion(stats, func(s EmotionStat) bool { return s.ImpactScore > 0 }, func(a, b EmotionStat) bool {
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		if a.TradeCount != b.TradeCount {
			return a.TradeCount > b.TradeCount
		}
		return a.Tag < b.Tag
	})
}

// MostCostlyEmotion returns the group with the lowest negative impact
// score, with the mirrored tie-breaks; nil when no group underperforms
// the baseline
func MostCostlyEmotion(stats []EmotionStat) *EmotionStat {
	return pickEmotion(stats, func(s EmotionStat) bool { return s.ImpactScore < 0 }, func(a, b EmotionStat) bool {
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore < b.ImpactScore
		}
		if a.TradeCount != b.TradeCount {
			return a.TradeCount < b.TradeCount
		}
		return a.Tag < b.Tag
	})
}

func pickEmotion(stats []EmotionStat, eligible func(EmotionStat) bool, better func(a, b EmotionStat) bool) *EmotionStat {
	var best *EmotionStat
	for i := range stats {
		s := stats[i]
		if !eligible(s) {
			continue
		}
		if best == nil || better(s, *best) {
			c := s
			best = &c
		}
	}
	return best
}

// DetectLeaks flags emotion groups whose negative impact exceeds the
// configured threshold and buckets them by cost band
func DetectLeaks(stats []EmotionStat, cfg analyticsconfig.Leaks) []LeakRecord {
	leaks := make([]LeakRecord, 0)
	for _, s := range stats {
		if s.ImpactScore >= 0 {
			continue
		}
		cost := -s.ImpactScore
		if cost <= cfg.Threshold {
			continue
		}

		leaks = append(leaks, LeakRecord{
			Category:  "emotion",
			Name:      s.Tag,
			Cost:      cost,
			Frequency: s.TradeCount,
			Severity:  severityOf(cost, cfg.Bands),
		})
	}
	if len(leaks) == 0 {
		return nil
	}
	return leaks
}

func severityOf(cost float64, bands analyticsconfig.Bands) LeakSeverity {
	switch {
	case cost >= bands.Critical:
		return SeverityCritical
	case cost >= bands.High:
		return SeverityHigh
	case cost >= bands.Medium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// BehaviorCosts derives the three behavioral headline figures from the
// emotion grouping. Each figure is the summed impact score of a
// configured canonical tag set; tags absent from the data contribute
// zero. Hesitation and revenge are reported as costs (clamped at zero
// when the tag group actually helped); FOMO impact keeps its sign.
func BehaviorCosts(stats []EmotionStat, cfg analyticsconfig.Behavior) (hesitation, fomo, revenge float64) {
	impact := make(map[string]float64, len(stats))
	for _, s := range stats {
		impact[s.Tag] = s.ImpactScore
	}

	sum := func(tags []string) float64 {
		var total float64
		for _, tag := range tags {
			total += impact[tag]
		}
		return total
	}

	hesitation = max(0, -sum(cfg.HesitationTags))
	fomo = sum(cfg.FOMOTags)
	revenge = max(0, -sum(cfg.RevengeTags))
	return hesitation, fomo, revenge
}

// tagGroup accumulates one tag's outcome
type tagGroup struct {
	count  int
	wins   int
	netPnL float64
}

// groupByTags builds tag groups in first-seen order
func groupByTags(trades []contracts.Trade, tagsOf func(contracts.Trade) []string) (map[string]*tagGroup, []string) {
	groups := make(map[string]*tagGroup)
	order := make([]string, 0)

	for _, t := range trades {
		seen := make(map[string]bool)
		for _, tag := range tagsOf(t) {
			if tag == "" || seen[tag] {
				// A duplicated tag on one trade counts once
				continue
			}
			seen[tag] = true

			g, ok := groups[tag]
			if !ok {
				g = &tagGroup{}
				groups[tag] = g
				order = append(order, tag)
			}
			g.count++
			if t.IsWin() {
				g.wins++
			}
			g.netPnL += t.PnL
		}
	}

	return groups, order
}
