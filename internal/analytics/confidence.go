package analytics

import (
	"math"

	"github.com/tradelens/backend/internal/contracts"
)

// CalibrateConfidence buckets trades by integer confidence level (1-10).
// Trades without a recorded level are skipped entirely. Buckets are
// emitted in ascending level order; empty levels are absent.
func CalibrateConfidence(trades []contracts.Trade) []ConfidenceBucket {
	type acc struct {
		count int
		wins  int
		pnl   float64
	}
	var levels [11]acc // index by level, 0 unused

	any := false
	for _, t := range trades {
		if !t.HasConfidence() {
			continue
		}
		any = true
		a := &levels[t.Confidence]
		a.count++
		if t.IsWin() {
			a.wins++
		}
		a.pnl += t.PnL
	}
	if !any {
		return nil
	}

	buckets := make([]ConfidenceBucket, 0)
	for level := 1; level <= 10; level++ {
		a := levels[level]
		if a.count == 0 {
			continue
		}
		buckets = append(buckets, ConfidenceBucket{
			Level:      level,
			TradeCount: a.count,
			WinRate:    winRateOf(a.wins, a.count),
			AvgPnL:     a.pnl / float64(a.count),
		})
	}

	return buckets
}

// ConfidenceCorrelation computes the Pearson correlation between the
// self-reported confidence level and the binary win/loss outcome (1 for a
// win, 0 otherwise). The binary outcome, not pnl, is the fixed basis: it
// answers "does higher confidence come with more wins" without letting a
// single outsized trade dominate.
//
// The correlation is undefined, not zero, when fewer than 2 trades carry
// a confidence level, when fewer than 2 distinct levels exist, or when the
// outcomes have no variance.
func ConfidenceCorrelation(trades []contracts.Trade) Metric {
	var xs, ys []float64
	distinct := make(map[int]struct{})

	for _, t := range trades {
		if !t.HasConfidence() {
			continue
		}
		distinct[t.Confidence] = struct{}{}
		xs = append(xs, float64(t.Confidence))
		if t.IsWin() {
			ys = append(ys, 1)
		} else {
			ys = append(ys, 0)
		}
	}

	if len(xs) < 2 || len(distinct) < 2 {
		return Undefined(ReasonInsufficientData)
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		// All levels equal or all outcomes equal: correlation undefined
		return Undefined(ReasonInsufficientData)
	}

	return Defined(cov / math.Sqrt(varX*varY))
}
