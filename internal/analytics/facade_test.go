package analytics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/tradelens/backend/internal/analyticsconfig"
	"github.com/tradelens/backend/internal/contracts"
	"github.com/tradelens/backend/pkg/logger"
)

func testFacade() *Facade {
	return NewFacade(analyticsconfig.Default(), logger.Nop())
}

func fullSet() []contracts.Trade {
	t1 := tagged(newTrade("t1", 0, 100), "calm")
	t1.StrategyID = "breakout-v2"
	t2 := tagged(newTrade("t2", 1, -50), "fear")
	t2.TriggerTags = []string{"news"}
	t3 := confident(tagged(newTrade("t3", 2, -30), "fear"), 3)
	t4 := confident(newTrade("t4", 3, 80), 8)
	t4.StrategyID = "breakout-v2"
	t5 := newTrade("t5", 4, -20)
	return []contracts.Trade{t1, t2, t3, t4, t5}
}

func TestComputeSummary_WorkedExample(t *testing.T) {
	summary, err := testFacade().ComputeSummary(context.Background(), fullSet(), testRange)
	if err != nil {
		t.Fatalf("ComputeSummary failed: %v", err)
	}

	if summary.TotalTrades != 5 {
		t.Errorf("TotalTrades = %d, want 5", summary.TotalTrades)
	}
	if summary.TotalPnL != 80 {
		t.Errorf("TotalPnL = %v, want 80", summary.TotalPnL)
	}
	if !summary.OverallWinRate.Valid || summary.OverallWinRate.Value != 40 {
		t.Errorf("OverallWinRate = %+v, want 40", summary.OverallWinRate)
	}

	if summary.Streaks.BestLosing == nil || summary.Streaks.BestLosing.Length != 2 {
		t.Errorf("BestLosing = %+v, want length 2", summary.Streaks.BestLosing)
	}
	if summary.Drawdown.Max == nil || summary.Drawdown.Max.Drawdown != -80 {
		t.Errorf("max drawdown = %+v, want -80", summary.Drawdown.Max)
	}

	// Every section computed
	for name, ok := range summary.Sections {
		if !ok {
			t.Errorf("section %s unavailable", name)
		}
	}
	if len(summary.Sections) != 7 {
		t.Errorf("sections = %d, want 7", len(summary.Sections))
	}

	if len(summary.EmotionImpact) != 2 {
		t.Errorf("emotion groups = %d, want 2", len(summary.EmotionImpact))
	}
	if len(summary.StrategyStats) != 1 {
		t.Errorf("strategy stats = %d, want 1", len(summary.StrategyStats))
	}
	if len(summary.TriggerAnalysis) != 1 {
		t.Errorf("trigger stats = %d, want 1", len(summary.TriggerAnalysis))
	}
	if len(summary.ConfidenceStats) != 2 {
		t.Errorf("confidence buckets = %d, want 2", len(summary.ConfidenceStats))
	}
}

func TestComputeSummary_Deterministic(t *testing.T) {
	facade := testFacade()
	trades := fullSet()

	first, err := facade.ComputeSummary(context.Background(), trades, testRange)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := facade.ComputeSummary(context.Background(), trades, testRange)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("identical inputs must produce bit-identical summaries")
	}
}

func TestComputeSummary_ReorderInsensitiveAggregates(t *testing.T) {
	facade := testFacade()
	trades := fullSet()

	reversed := make([]contracts.Trade, len(trades))
	for i, tr := range trades {
		reversed[len(trades)-1-i] = tr
	}

	a, err := facade.ComputeSummary(context.Background(), trades, testRange)
	if err != nil {
		t.Fatal(err)
	}
	b, err := facade.ComputeSummary(context.Background(), reversed, testRange)
	if err != nil {
		t.Fatal(err)
	}

	// Sanitize re-sorts chronologically, so every result matches
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if string(aj) != string(bj) {
		t.Error("delivery order must not change any result")
	}
}

func TestComputeSummary_EmptySet(t *testing.T) {
	summary, err := testFacade().ComputeSummary(context.Background(), nil, testRange)
	if err != nil {
		t.Fatalf("empty set must not error: %v", err)
	}

	if summary.TotalTrades != 0 || summary.TotalPnL != 0 {
		t.Errorf("totals = %d/%v, want 0/0", summary.TotalTrades, summary.TotalPnL)
	}
	if summary.OverallWinRate.Valid {
		t.Error("win rate should be the insufficient-data sentinel")
	}
	if summary.ProfitFactor.Valid {
		t.Error("profit factor should be the insufficient-data sentinel")
	}
	if summary.ConfidenceCorrelation.Valid {
		t.Error("correlation should be the insufficient-data sentinel")
	}
	if summary.MostProfitableEmotion != nil || summary.MostCostlyEmotion != nil {
		t.Error("emotion extremes should be nil")
	}
	for name, ok := range summary.Sections {
		if !ok {
			t.Errorf("section %s should still be available on an empty set", name)
		}
	}
}

func TestComputeSummary_AllSharedEmotionSentinel(t *testing.T) {
	trades := []contracts.Trade{
		tagged(newTrade("t1", 0, 100), "fear"),
		tagged(newTrade("t2", 1, -40), "fear"),
	}

	summary, err := testFacade().ComputeSummary(context.Background(), trades, testRange)
	if err != nil {
		t.Fatal(err)
	}

	if summary.MostProfitableEmotion != nil {
		t.Errorf("most profitable = %+v, want nil sentinel", summary.MostProfitableEmotion)
	}
	if summary.MostCostlyEmotion != nil {
		t.Errorf("most costly = %+v, want nil sentinel", summary.MostCostlyEmotion)
	}
}

func TestComputeSummary_MalformedTradesSkippedWithWarnings(t *testing.T) {
	trades := fullSet()
	bad := newTrade("bad", 9, 999)
	bad.Quantity = -1
	trades = append(trades, bad)

	summary, err := testFacade().ComputeSummary(context.Background(), trades, testRange)
	if err != nil {
		t.Fatal(err)
	}

	if summary.TotalTrades != 5 {
		t.Errorf("TotalTrades = %d, want 5 (malformed skipped)", summary.TotalTrades)
	}
	if len(summary.Warnings) != 1 {
		t.Errorf("warnings = %+v, want 1", summary.Warnings)
	}
}

func TestComputeSummary_InvalidRange(t *testing.T) {
	if _, err := testFacade().ComputeSummary(context.Background(), nil, contracts.DateRange{}); err == nil {
		t.Error("expected error for invalid range")
	}
}

func TestComputeSummary_SectionTimeout(t *testing.T) {
	cfg := analyticsconfig.Default()
	cfg.Compute.SectionTimeoutMS = 1 // effectively immediate

	// With a large set and a 1ms deadline at least the summary must still
	// come back; sections may individually be unavailable but never nil
	trades := make([]contracts.Trade, 0, 2000)
	for i := 0; i < 2000; i++ {
		trades = append(trades, pnlSequence(float64(i%7)-3)...)
	}
	for i := range trades {
		trades[i].ID = trades[i].ID + "-" + string(rune('a'+i%26)) + string(rune('a'+(i/26)%26)) + string(rune('a'+(i/676)%26))
	}

	facade := NewFacade(cfg, logger.Nop())
	summary, err := facade.ComputeSummary(context.Background(), trades, testRange)
	if err != nil {
		t.Fatalf("timeouts must not fail the call: %v", err)
	}
	if len(summary.Sections) != 7 {
		t.Errorf("sections map = %d entries, want all 7 regardless of availability", len(summary.Sections))
	}
}

func TestComputeHeatmap(t *testing.T) {
	hm, err := testFacade().ComputeHeatmap(fullSet(), testRange)
	if err != nil {
		t.Fatal(err)
	}
	if len(hm.BySymbol) == 0 {
		t.Error("expected symbol cells")
	}
}
