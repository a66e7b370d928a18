package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tradelens/backend/internal/contracts"
)

// TradeFilter is the declarative predicate behind a what-if scenario.
// Zero-value fields are inactive; active fields combine with AND.
type TradeFilter struct {
	// ExcludeEmotionTags drops any trade carrying one of these tags
	ExcludeEmotionTags []string `json:"exclude_emotion_tags,omitempty"`
	// ExcludeTriggerTags drops any trade carrying one of these tags
	ExcludeTriggerTags []string `json:"exclude_trigger_tags,omitempty"`
	// MinConfidence drops trades whose recorded confidence is below the
	// bound; trades without a recorded level are kept
	MinConfidence int `json:"min_confidence,omitempty"`
	// Symbols restricts the subset to these symbols when non-empty
	Symbols []string `json:"symbols,omitempty"`
	// StrategyIDs restricts the subset to these strategies when non-empty
	StrategyIDs []string `json:"strategy_ids,omitempty"`
}

// Validate rejects filters that cannot be evaluated meaningfully
func (f TradeFilter) Validate() error {
	if f.MinConfidence < 0 || f.MinConfidence > 10 {
		return fmt.Errorf("min_confidence must be within 0-10, got %d", f.MinConfidence)
	}
	return nil
}

// Keep reports whether a trade survives the filter
func (f TradeFilter) Keep(t contracts.Trade) bool {
	if containsAny(t.EmotionTags, f.ExcludeEmotionTags) {
		return false
	}
	if containsAny(t.TriggerTags, f.ExcludeTriggerTags) {
		return false
	}
	if f.MinConfidence > 0 && t.HasConfidence() && t.Confidence < f.MinConfidence {
		return false
	}
	if len(f.Symbols) > 0 && !contains(f.Symbols, t.Symbol) {
		return false
	}
	if len(f.StrategyIDs) > 0 && !contains(f.StrategyIDs, t.StrategyID) {
		return false
	}
	return true
}

// Simulate re-runs the core metrics over the filtered subset and diffs
// them against the unfiltered baseline. It audits historical decisions on
// the trades it is given; it does not forecast future trades.
func Simulate(trades []contracts.Trade, filter TradeFilter) (*WhatIfResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	kept := make([]contracts.Trade, 0, len(trades))
	for _, t := range trades {
		if filter.Keep(t) {
			kept = append(kept, t)
		}
	}

	baseline := ComputeCore(trades)
	filtered := ComputeCore(kept)

	result := &WhatIfResult{
		RunID:          uuid.NewString(),
		Filter:         filter,
		Baseline:       baseline,
		Filtered:       filtered,
		PnLDelta:       filtered.TotalPnL - baseline.TotalPnL,
		ExcludedTrades: baseline.TotalTrades - filtered.TotalTrades,
	}

	if baseline.WinRate.Valid && filtered.WinRate.Valid {
		result.WinRateDelta = Defined(filtered.WinRate.Value - baseline.WinRate.Value)
	} else {
		result.WinRateDelta = Undefined(ReasonInsufficientData)
	}

	return result, nil
}

// SimulateBatch evaluates many scenarios over one snapshot, checking the
// context between scenarios so a long batch can be abandoned cleanly.
func SimulateBatch(ctx context.Context, trades []contracts.Trade, filters []TradeFilter) ([]WhatIfResult, error) {
	results := make([]WhatIfResult, 0, len(filters))

	for i, filter := range filters {
		select {
		case <-ctx.Done():
			return results, fmt.Errorf("%w after %d of %d scenarios: %v",
				ErrCancelled, i, len(filters), ctx.Err())
		default:
		}

		r, err := Simulate(trades, filter)
		if err != nil {
			return results, fmt.Errorf("scenario %d: %w", i, err)
		}
		results = append(results, *r)
	}

	return results, nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsAny(haystack, needles []string) bool {
	for _, n := range needles {
		if contains(haystack, n) {
			return true
		}
	}
	return false
}
