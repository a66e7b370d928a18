package analytics

import (
	"math"

	"github.com/tradelens/backend/internal/contracts"
)

// ComputeCore calculates the headline metrics over a trade set. Order
// does not matter here; pnl is accumulated in slice order so the same
// slice always sums identically.
func ComputeCore(trades []contracts.Trade) CoreMetrics {
	m := CoreMetrics{}

	for _, t := range trades {
		m.TotalTrades++
		m.TotalPnL += t.PnL

		switch {
		case t.PnL > 0:
			m.Wins++
			m.GrossProfit += t.PnL
		case t.PnL < 0:
			m.Losses++
			m.GrossLoss += math.Abs(t.PnL)
		default:
			m.BreakEven++
		}
	}

	if m.TotalTrades == 0 {
		m.WinRate = Undefined(ReasonInsufficientData)
		m.ProfitFactor = Undefined(ReasonInsufficientData)
		m.AvgPnL = Undefined(ReasonInsufficientData)
		return m
	}

	m.WinRate = Defined(float64(m.Wins) / float64(m.TotalTrades) * 100)
	m.AvgPnL = Defined(m.TotalPnL / float64(m.TotalTrades))

	// Profit factor: gross profit / |gross loss|. With no losses the ratio
	// is undefined, never +Inf.
	switch {
	case m.GrossLoss > 0:
		m.ProfitFactor = Defined(m.GrossProfit / m.GrossLoss)
	case m.GrossProfit > 0:
		m.ProfitFactor = Undefined(ReasonNoLosses)
	default:
		m.ProfitFactor = Undefined(ReasonInsufficientData)
	}

	return m
}

// winRateOf returns the percentage win rate for a group size, undefined
// for an empty group
func winRateOf(wins, total int) Metric {
	if total == 0 {
		return Undefined(ReasonInsufficientData)
	}
	return Defined(float64(wins) / float64(total) * 100)
}
