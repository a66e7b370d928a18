package contracts

import (
	"testing"
	"time"
)

func TestTrade_HasConfidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence int
		want       bool
	}{
		{"not recorded", 0, false},
		{"minimum", 1, true},
		{"maximum", 10, true},
		{"out of range high", 11, false},
		{"out of range negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Trade{Confidence: tt.confidence}
			if got := tr.HasConfidence(); got != tt.want {
				t.Errorf("HasConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrade_IsWin(t *testing.T) {
	if !(&Trade{PnL: 0.01}).IsWin() {
		t.Error("positive pnl should be a win")
	}
	if (&Trade{PnL: 0}).IsWin() {
		t.Error("break-even should not be a win")
	}
	if (&Trade{PnL: -5}).IsWin() {
		t.Error("negative pnl should not be a win")
	}
}

func TestDateRange_Validate(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	if err := (DateRange{From: from, To: to}).Validate(); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := (DateRange{From: to, To: from}).Validate(); err == nil {
		t.Error("inverted range accepted")
	}
	if err := (DateRange{From: from, To: from}).Validate(); err == nil {
		t.Error("empty range accepted")
	}
	if err := (DateRange{}).Validate(); err == nil {
		t.Error("zero range accepted")
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	if !r.Contains(r.From) {
		t.Error("range should include From")
	}
	if r.Contains(r.To) {
		t.Error("range should exclude To")
	}
	if r.Contains(r.From.Add(-time.Second)) {
		t.Error("range should exclude times before From")
	}
}

func TestDateRange_Key(t *testing.T) {
	r := DateRange{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	if got := r.Key(); got != "20260101-20260201" {
		t.Errorf("Key() = %s, want 20260101-20260201", got)
	}
}
