package analytics

import (
	"math"
	"testing"

	"github.com/tradelens/backend/internal/contracts"
)

func confident(tr contracts.Trade, level int) contracts.Trade {
	tr.Confidence = level
	return tr
}

func TestCalibrateConfidence_Buckets(t *testing.T) {
	trades := []contracts.Trade{
		confident(newTrade("t1", 0, 100), 8),
		confident(newTrade("t2", 1, -50), 8),
		confident(newTrade("t3", 2, 30), 3),
		newTrade("t4", 3, 10), // no confidence recorded, skipped
	}

	buckets := CalibrateConfidence(trades)
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}

	// Ascending level order
	if buckets[0].Level != 3 || buckets[1].Level != 8 {
		t.Errorf("levels = %d,%d; want 3,8", buckets[0].Level, buckets[1].Level)
	}

	b8 := buckets[1]
	if b8.TradeCount != 2 {
		t.Errorf("level 8 count = %d, want 2", b8.TradeCount)
	}
	if b8.AvgPnL != 25 {
		t.Errorf("level 8 avg pnl = %v, want 25", b8.AvgPnL)
	}
	if !b8.WinRate.Valid || b8.WinRate.Value != 50 {
		t.Errorf("level 8 win rate = %+v, want 50", b8.WinRate)
	}
}

func TestCalibrateConfidence_NoneRecorded(t *testing.T) {
	if buckets := CalibrateConfidence(pnlSequence(1, -1)); buckets != nil {
		t.Errorf("expected nil, got %+v", buckets)
	}
}

func TestConfidenceCorrelation_PerfectPositive(t *testing.T) {
	trades := []contracts.Trade{
		confident(newTrade("t1", 0, -10), 2),
		confident(newTrade("t2", 1, -20), 2),
		confident(newTrade("t3", 2, 30), 9),
		confident(newTrade("t4", 3, 40), 9),
	}

	corr := ConfidenceCorrelation(trades)
	if !corr.Valid {
		t.Fatalf("correlation undefined: %+v", corr)
	}
	if math.Abs(corr.Value-1) > 1e-9 {
		t.Errorf("correlation = %v, want 1", corr.Value)
	}
}

func TestConfidenceCorrelation_Negative(t *testing.T) {
	trades := []contracts.Trade{
		confident(newTrade("t1", 0, 50), 2),
		confident(newTrade("t2", 1, -50), 9),
	}

	corr := ConfidenceCorrelation(trades)
	if !corr.Valid || corr.Value >= 0 {
		t.Errorf("correlation = %+v, want negative", corr)
	}
}

func TestConfidenceCorrelation_Undefined(t *testing.T) {
	tests := []struct {
		name   string
		trades []contracts.Trade
	}{
		{"no confidence recorded", pnlSequence(1, -1, 2)},
		{"single qualifying trade", []contracts.Trade{
			confident(newTrade("t1", 0, 10), 5),
			newTrade("t2", 1, -10),
		}},
		{"single distinct level", []contracts.Trade{
			confident(newTrade("t1", 0, 10), 5),
			confident(newTrade("t2", 1, -10), 5),
		}},
		{"no outcome variance", []contracts.Trade{
			confident(newTrade("t1", 0, 10), 3),
			confident(newTrade("t2", 1, 20), 7),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corr := ConfidenceCorrelation(tt.trades)
			if corr.Valid {
				t.Errorf("correlation = %+v, want undefined", corr)
			}
			if corr.Reason != ReasonInsufficientData {
				t.Errorf("reason = %q, want %q", corr.Reason, ReasonInsufficientData)
			}
			if corr.Value != 0 || math.IsNaN(corr.Value) {
				t.Errorf("undefined metric should carry zero value, got %v", corr.Value)
			}
		})
	}
}
