package analytics

import (
	"testing"
	"time"

	"github.com/tradelens/backend/internal/contracts"
)

func TestComputeTimeline(t *testing.T) {
	// 2026-03-02 is a Monday, 2026-03-04 a Wednesday
	monday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

	trades := []contracts.Trade{
		atTime(newTrade("t1", 0, 100), monday),
		atTime(newTrade("t2", 0, -40), monday.Add(time.Hour)),
		atTime(newTrade("t3", 0, 25), wednesday),
	}

	timeline, err := ComputeTimeline(trades, testRange)
	if err != nil {
		t.Fatalf("ComputeTimeline failed: %v", err)
	}

	if len(timeline.Days) != 2 {
		t.Fatalf("days = %d, want 2 (days without trades are absent)", len(timeline.Days))
	}

	day1 := timeline.Days[0]
	if day1.Date != "2026-03-02" {
		t.Errorf("day 1 = %s, want 2026-03-02", day1.Date)
	}
	if day1.TradeCount != 2 || day1.NetPnL != 60 {
		t.Errorf("day 1 = %+v", day1)
	}
	if !day1.WinRate.Valid || day1.WinRate.Value != 50 {
		t.Errorf("day 1 win rate = %+v, want 50", day1.WinRate)
	}

	if len(timeline.Weekdays) != 2 {
		t.Fatalf("weekdays = %d, want 2", len(timeline.Weekdays))
	}
	// Sunday-first calendar order
	if timeline.Weekdays[0].Weekday != "Monday" || timeline.Weekdays[1].Weekday != "Wednesday" {
		t.Errorf("weekdays = %s,%s", timeline.Weekdays[0].Weekday, timeline.Weekdays[1].Weekday)
	}
	if timeline.Weekdays[0].TradeCount != 2 {
		t.Errorf("Monday count = %d, want 2", timeline.Weekdays[0].TradeCount)
	}
}

func TestComputeTimeline_Empty(t *testing.T) {
	timeline, err := ComputeTimeline(nil, testRange)
	if err != nil {
		t.Fatalf("empty set must not error: %v", err)
	}
	if len(timeline.Days) != 0 || len(timeline.Weekdays) != 0 {
		t.Error("empty set should produce empty series")
	}
}

func TestComputeTimeline_InvalidRange(t *testing.T) {
	if _, err := ComputeTimeline(nil, contracts.DateRange{}); err == nil {
		t.Error("expected error for invalid range")
	}
}
