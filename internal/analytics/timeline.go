package analytics

import (
	"fmt"
	"time"

	"github.com/tradelens/backend/internal/contracts"
)

// ComputeTimeline builds the per-day P&L series plus weekday aggregates.
// Days and weekdays without trades are absent from the result. Trades are
// assigned to the UTC day of their entry time, matching the heatmap's
// bucketing.
func ComputeTimeline(trades []contracts.Trade, dateRange contracts.DateRange) (*Timeline, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, fmt.Errorf("invalid date range: %w", err)
	}

	clean, warnings := Sanitize(trades)

	timeline := &Timeline{
		Range:    dateRange,
		Warnings: warnings,
	}
	if len(clean) == 0 {
		return timeline, nil
	}

	type acc struct {
		count int
		wins  int
		pnl   float64
	}

	days := make(map[string]*acc)
	dayOrder := make([]string, 0)
	var weekdays [7]acc
	weekdaySeen := [7]bool{}

	for _, t := range clean {
		entry := t.EntryTime.UTC()

		day := entry.Format("2006-01-02")
		d, ok := days[day]
		if !ok {
			d = &acc{}
			days[day] = d
			dayOrder = append(dayOrder, day)
		}
		d.count++
		if t.IsWin() {
			d.wins++
		}
		d.pnl += t.PnL

		wd := int(entry.Weekday())
		weekdaySeen[wd] = true
		weekdays[wd].count++
		if t.IsWin() {
			weekdays[wd].wins++
		}
		weekdays[wd].pnl += t.PnL
	}

	// Input is chronological, so first-seen day order is calendar order
	timeline.Days = make([]DayPoint, 0, len(dayOrder))
	for _, day := range dayOrder {
		d := days[day]
		timeline.Days = append(timeline.Days, DayPoint{
			Date:       day,
			TradeCount: d.count,
			NetPnL:     d.pnl,
			WinRate:    winRateOf(d.wins, d.count),
		})
	}

	timeline.Weekdays = make([]WeekdayStat, 0)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if !weekdaySeen[wd] {
			continue
		}
		a := weekdays[wd]
		timeline.Weekdays = append(timeline.Weekdays, WeekdayStat{
			Weekday:    wd.String(),
			TradeCount: a.count,
			NetPnL:     a.pnl,
			WinRate:    winRateOf(a.wins, a.count),
		})
	}

	return timeline, nil
}
