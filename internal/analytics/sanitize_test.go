package analytics

import (
	"testing"
	"time"

	"github.com/tradelens/backend/internal/contracts"
)

func TestSanitize_SkipsMalformed(t *testing.T) {
	valid := newTrade("ok", 0, 10)

	noID := newTrade("", 1, 10)
	noSymbol := newTrade("no-symbol", 2, 10)
	noSymbol.Symbol = ""
	backwards := newTrade("backwards", 3, 10)
	backwards.ExitTime = backwards.EntryTime.Add(-time.Hour)
	badQty := newTrade("bad-qty", 4, 10)
	badQty.Quantity = 0
	badDir := newTrade("bad-dir", 5, 10)
	badDir.Direction = "sideways"

	clean, warnings := Sanitize([]contracts.Trade{valid, noID, noSymbol, backwards, badQty, badDir})

	if len(clean) != 1 || clean[0].ID != "ok" {
		t.Fatalf("clean = %+v, want only the valid trade", clean)
	}
	if len(warnings) != 5 {
		t.Fatalf("warnings = %d, want 5", len(warnings))
	}
}

func TestSanitize_Deduplicates(t *testing.T) {
	a := newTrade("dup", 0, 10)
	b := newTrade("dup", 1, -99)

	clean, warnings := Sanitize([]contracts.Trade{a, b})
	if len(clean) != 1 {
		t.Fatalf("clean = %d, want 1", len(clean))
	}
	if clean[0].PnL != 10 {
		t.Error("first occurrence should win")
	}
	if len(warnings) != 1 || warnings[0].Reason != "duplicate trade id" {
		t.Errorf("warnings = %+v", warnings)
	}
}

func TestSanitize_RepairsConfidence(t *testing.T) {
	tr := newTrade("t1", 0, 10)
	tr.Confidence = 15

	clean, warnings := Sanitize([]contracts.Trade{tr})
	if len(clean) != 1 {
		t.Fatal("out-of-range confidence must not cost the trade")
	}
	if clean[0].Confidence != 0 {
		t.Errorf("confidence = %d, want repaired to 0", clean[0].Confidence)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(warnings))
	}
}

func TestSanitize_SortsChronologically(t *testing.T) {
	trades := []contracts.Trade{
		newTrade("late", 10, 1),
		newTrade("early", 0, 1),
		newTrade("middle", 5, 1),
	}

	clean, _ := Sanitize(trades)
	if clean[0].ID != "early" || clean[1].ID != "middle" || clean[2].ID != "late" {
		t.Errorf("order = %s,%s,%s", clean[0].ID, clean[1].ID, clean[2].ID)
	}
}

func TestSanitize_Empty(t *testing.T) {
	clean, warnings := Sanitize(nil)
	if len(clean) != 0 || len(warnings) != 0 {
		t.Error("empty input should sanitize to empty output")
	}
}
