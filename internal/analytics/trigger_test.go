package analytics

import (
	"testing"

	"github.com/tradelens/backend/internal/contracts"
)

func triggered(tr contracts.Trade, triggers ...string) contracts.Trade {
	tr.TriggerTags = triggers
	return tr
}

func TestAnalyzeTriggers(t *testing.T) {
	trades := []contracts.Trade{
		triggered(newTrade("t1", 0, 100), "breakout"),
		triggered(newTrade("t2", 1, -50), "breakout", "news"),
		triggered(newTrade("t3", 2, 25), "news"),
		newTrade("t4", 3, 10), // untagged
	}

	stats := AnalyzeTriggers(trades)
	if len(stats) != 2 {
		t.Fatalf("groups = %d, want 2", len(stats))
	}

	breakout := stats[0]
	if breakout.Tag != "breakout" || breakout.UsageCount != 2 {
		t.Errorf("breakout = %+v", breakout)
	}
	if breakout.NetResult != 50 {
		t.Errorf("breakout net = %v, want 50", breakout.NetResult)
	}
	if !breakout.WinRate.Valid || breakout.WinRate.Value != 50 {
		t.Errorf("breakout win rate = %+v, want 50", breakout.WinRate)
	}

	news := stats[1]
	if news.Tag != "news" || news.UsageCount != 2 || news.NetResult != -25 {
		t.Errorf("news = %+v", news)
	}
}

func TestAnalyzeTriggers_NoTags(t *testing.T) {
	if stats := AnalyzeTriggers(pnlSequence(1, 2, 3)); stats != nil {
		t.Errorf("untagged set should give nil, got %+v", stats)
	}
}
