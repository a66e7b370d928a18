package analytics

import (
	"github.com/tradelens/backend/internal/contracts"
)

// TrackDrawdown builds the cumulative equity curve and its drawdown series.
// The input must already be in chronological entry order; reordering before
// this call is a contract violation.
//
// The curve is relative: equity starts at 0 and steps by each trade's pnl
// (the engine never receives starting capital). Drawdown is expressed as a
// negative percentage of the running peak. While the peak is not positive
// (curve still under water from the start) a percentage of peak is
// meaningless, so those points carry the absolute currency decline instead
// and are flagged Absolute.
func TrackDrawdown(trades []contracts.Trade, epsilon float64) DrawdownReport {
	report := DrawdownReport{}
	if len(trades) == 0 {
		return report
	}

	points := make([]DrawdownPoint, 0, len(trades))

	var equity, peak float64
	for _, t := range trades {
		equity += t.PnL
		if equity > peak {
			peak = equity
		}

		p := DrawdownPoint{
			Timestamp: t.ExitTime,
			Equity:    equity,
		}
		if peak > epsilon {
			p.Drawdown = (equity - peak) / peak * 100
		} else {
			p.Drawdown = equity - peak
			p.Absolute = true
		}
		points = append(points, p)
	}

	report.Points = points
	report.Max = maxDrawdownPoint(points)
	return report
}

// maxDrawdownPoint returns the most negative drawdown in the series.
// Percentage points take precedence over absolute ones; a curve that never
// went positive is compared purely in currency terms.
func maxDrawdownPoint(points []DrawdownPoint) *DrawdownPoint {
	var best *DrawdownPoint
	for i := range points {
		p := &points[i]
		if best == nil {
			best = p
			continue
		}
		if best.Absolute != p.Absolute {
			if !p.Absolute {
				best = p
			}
			continue
		}
		if p.Drawdown < best.Drawdown {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	c := *best
	return &c
}
