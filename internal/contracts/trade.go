package contracts

import (
	"fmt"
	"time"
)

// Direction indicates whether a trade was long or short
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Trade is one completed execution pair with a realized P&L.
// ⭐ SSOT: trades are immutable once produced by the repository;
// the analytics engine never mutates or persists them.
type Trade struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   float64   `json:"quantity"`
	Direction  Direction `json:"direction"`
	PnL        float64   `json:"pnl"`

	// Journal annotations. Tags are free-form strings drawn from the
	// canonical vocabulary validated at the ingestion boundary.
	StrategyID  string   `json:"strategy_id,omitempty"`
	EmotionTags []string `json:"emotion_tags,omitempty"`
	TriggerTags []string `json:"trigger_tags,omitempty"`

	// Confidence is the trader's self-reported 1-10 level, 0 when not recorded
	Confidence int `json:"confidence_level,omitempty"`
}

// HasConfidence reports whether a confidence level was recorded
func (t *Trade) HasConfidence() bool {
	return t.Confidence >= 1 && t.Confidence <= 10
}

// IsWin reports whether the trade closed with a positive P&L.
// Break-even trades are not wins.
func (t *Trade) IsWin() bool {
	return t.PnL > 0
}

// DateRange is a half-open [From, To) window over entry times
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate checks that the range is well-formed
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("date range requires both from and to")
	}
	if !r.To.After(r.From) {
		return fmt.Errorf("date range to (%s) must be after from (%s)",
			r.To.Format("2006-01-02"), r.From.Format("2006-01-02"))
	}
	return nil
}

// Contains reports whether ts falls inside the range
func (r DateRange) Contains(ts time.Time) bool {
	return !ts.Before(r.From) && ts.Before(r.To)
}

// Key returns a stable string form used in cache keys
func (r DateRange) Key() string {
	return r.From.UTC().Format("20060102") + "-" + r.To.UTC().Format("20060102")
}

// LastNDays builds a range covering the n days ending at now
func LastNDays(now time.Time, n int) DateRange {
	to := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return DateRange{From: to.AddDate(0, 0, -n), To: to}
}
