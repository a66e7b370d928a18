package analytics

import (
	"testing"
	"time"

	"github.com/tradelens/backend/internal/contracts"
)

func atTime(tr contracts.Trade, entry time.Time) contracts.Trade {
	tr.EntryTime = entry
	tr.ExitTime = entry.Add(30 * time.Minute)
	return tr
}

func onSymbol(tr contracts.Trade, symbol string) contracts.Trade {
	tr.Symbol = symbol
	return tr
}

func TestBuildHeatmap_TimeOfWeek(t *testing.T) {
	// 2026-03-02 is a Monday
	monday9 := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	monday14 := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	trades := []contracts.Trade{
		atTime(newTrade("t1", 0, 100), monday9),
		atTime(newTrade("t2", 0, -40), monday9.Add(10*time.Minute)),
		atTime(newTrade("t3", 0, 25), monday14),
	}

	hm := BuildHeatmap(trades)
	if len(hm.ByTimeOfWeek) != 2 {
		t.Fatalf("time cells = %d, want 2", len(hm.ByTimeOfWeek))
	}

	cell := hm.ByTimeOfWeek[0]
	if cell.Key != "Mon:09" {
		t.Errorf("key = %s, want Mon:09", cell.Key)
	}
	if cell.TradeCount != 2 || cell.NetPnL != 60 {
		t.Errorf("Mon:09 = %+v", cell)
	}
	if !cell.WinRate.Valid || cell.WinRate.Value != 50 {
		t.Errorf("Mon:09 win rate = %+v, want 50", cell.WinRate)
	}

	if hm.ByTimeOfWeek[1].Key != "Mon:14" {
		t.Errorf("second key = %s, want Mon:14", hm.ByTimeOfWeek[1].Key)
	}
}

func TestBuildHeatmap_BySymbol(t *testing.T) {
	trades := []contracts.Trade{
		onSymbol(newTrade("t1", 0, 100), "AAPL"),
		onSymbol(newTrade("t2", 1, -30), "TSLA"),
		onSymbol(newTrade("t3", 2, 50), "AAPL"),
	}

	hm := BuildHeatmap(trades)
	if len(hm.BySymbol) != 2 {
		t.Fatalf("symbol cells = %d, want 2", len(hm.BySymbol))
	}

	aapl := hm.BySymbol[0]
	if aapl.Key != "AAPL" || aapl.TradeCount != 2 || aapl.NetPnL != 150 {
		t.Errorf("AAPL = %+v", aapl)
	}
}

func TestBuildHeatmap_EmptyCellsAbsent(t *testing.T) {
	// One trade: exactly one cell per grouping, nothing zero-filled
	hm := BuildHeatmap(pnlSequence(0))

	if len(hm.ByTimeOfWeek) != 1 {
		t.Errorf("time cells = %d, want 1", len(hm.ByTimeOfWeek))
	}
	if len(hm.BySymbol) != 1 {
		t.Errorf("symbol cells = %d, want 1", len(hm.BySymbol))
	}

	// A break-even cell is present with zero pnl, distinguishable from
	// an absent cell
	cell := hm.BySymbol[0]
	if cell.TradeCount != 1 || cell.NetPnL != 0 {
		t.Errorf("break-even cell = %+v", cell)
	}
}

func TestBuildHeatmap_Empty(t *testing.T) {
	hm := BuildHeatmap(nil)
	if hm.ByTimeOfWeek != nil || hm.BySymbol != nil {
		t.Error("empty input should give empty groupings")
	}
}
