package analytics

import (
	"sort"

	"github.com/tradelens/backend/internal/contracts"
)

// Sanitize validates a raw trade slice and returns the surviving trades in
// chronological entry order plus one Warning per skipped or repaired trade.
// Every aggregator consumes the sanitized, sorted slice, so the result is
// independent of the order the repository delivered the trades in.
//
// A trade is skipped when it is missing a required field or its times are
// non-chronological. An out-of-range confidence level is repaired to
// "not recorded" rather than costing the whole trade.
func Sanitize(trades []contracts.Trade) ([]contracts.Trade, []Warning) {
	out := make([]contracts.Trade, 0, len(trades))
	warnings := make([]Warning, 0)
	seen := make(map[string]struct{}, len(trades))

	for _, t := range trades {
		switch {
		case t.ID == "":
			warnings = append(warnings, Warning{Reason: "missing trade id"})
			continue
		case t.Symbol == "":
			warnings = append(warnings, Warning{TradeID: t.ID, Reason: "missing symbol"})
			continue
		case t.EntryTime.IsZero() || t.ExitTime.IsZero():
			warnings = append(warnings, Warning{TradeID: t.ID, Reason: "missing entry or exit time"})
			continue
		case t.ExitTime.Before(t.EntryTime):
			warnings = append(warnings, Warning{TradeID: t.ID, Reason: "exit before entry"})
			continue
		case t.Quantity <= 0:
			warnings = append(warnings, Warning{TradeID: t.ID, Reason: "non-positive quantity"})
			continue
		case t.Direction != contracts.DirectionLong && t.Direction != contracts.DirectionShort:
			warnings = append(warnings, Warning{TradeID: t.ID, Reason: "unknown direction"})
			continue
		}

		if _, dup := seen[t.ID]; dup {
			warnings = append(warnings, Warning{TradeID: t.ID, Reason: "duplicate trade id"})
			continue
		}
		seen[t.ID] = struct{}{}

		if t.Confidence != 0 && !t.HasConfidence() {
			warnings = append(warnings, Warning{TradeID: t.ID, Reason: "confidence level out of range, treated as unrecorded"})
			t.Confidence = 0
		}

		out = append(out, t)
	}

	// Stable sort keeps repository order for equal entry times
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EntryTime.Before(out[j].EntryTime)
	})

	return out, warnings
}
