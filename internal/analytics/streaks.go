package analytics

import (
	"github.com/tradelens/backend/internal/contracts"
)

// AnalyzeStreaks finds the longest winning and losing runs in a single
// left-to-right pass. The input must already be in chronological entry
// order (see Sanitize). A positive pnl extends a winning run; zero or
// negative pnl extends a losing run, so every trade belongs to exactly
// one streak and streak lengths partition the trade count.
//
// Ties keep the first-encountered streak. Zero trades produce nil
// results, not zero-length dummies.
func AnalyzeStreaks(trades []contracts.Trade) StreakReport {
	report := StreakReport{}
	if len(trades) == 0 {
		return report
	}

	current := Streak{
		Direction:    streakDirection(trades[0]),
		Length:       1,
		StartTradeID: trades[0].ID,
		EndTradeID:   trades[0].ID,
	}

	for _, t := range trades[1:] {
		dir := streakDirection(t)
		if dir == current.Direction {
			current.Length++
			current.EndTradeID = t.ID
			continue
		}

		closeStreak(&report, current)
		current = Streak{
			Direction:    dir,
			Length:       1,
			StartTradeID: t.ID,
			EndTradeID:   t.ID,
		}
	}
	closeStreak(&report, current)

	return report
}

func streakDirection(t contracts.Trade) StreakDirection {
	if t.IsWin() {
		return StreakWinning
	}
	return StreakLosing
}

// closeStreak compares a finished run against the best of its sign;
// strictly greater replaces, so the earliest streak wins ties
func closeStreak(report *StreakReport, s Streak) {
	switch s.Direction {
	case StreakWinning:
		if report.BestWinning == nil || s.Length > report.BestWinning.Length {
			c := s
			report.BestWinning = &c
		}
	case StreakLosing:
		if report.BestLosing == nil || s.Length > report.BestLosing.Length {
			c := s
			report.BestLosing = &c
		}
	}
}
