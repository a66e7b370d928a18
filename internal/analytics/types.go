package analytics

import (
	"time"

	"github.com/tradelens/backend/internal/contracts"
)

// =============================================================================
// Metric: statistics that may be undefined
// =============================================================================

// Undefined-value reasons
const (
	ReasonInsufficientData = "insufficient data"
	ReasonNoLosses         = "no losses"
)

// Metric is a float statistic that may be undefined. An undefined metric
// carries an explicit reason instead of masquerading as 0, NaN or Inf.
type Metric struct {
	Value  float64 `json:"value"`
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason,omitempty"`
}

// Defined wraps a computed value
func Defined(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// Undefined marks a statistic that cannot be computed
func Undefined(reason string) Metric {
	return Metric{Valid: false, Reason: reason}
}

// =============================================================================
// Derived aggregates
// =============================================================================

// CoreMetrics holds the headline trading statistics for one trade set
type CoreMetrics struct {
	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	BreakEven   int     `json:"break_even"`
	TotalPnL    float64 `json:"total_pnl"`
	GrossProfit float64 `json:"gross_profit"`
	GrossLoss   float64 `json:"gross_loss"` // magnitude, >= 0

	// WinRate is a percentage in [0, 100]
	WinRate      Metric `json:"win_rate"`
	ProfitFactor Metric `json:"profit_factor"`
	AvgPnL       Metric `json:"avg_pnl"`
}

// StreakDirection is the sign of a run of outcomes
type StreakDirection string

const (
	StreakWinning StreakDirection = "winning"
	StreakLosing  StreakDirection = "losing"
)

// Streak is a maximal consecutive run of same-sign outcomes in
// chronological order
type Streak struct {
	Direction    StreakDirection `json:"direction"`
	Length       int             `json:"length"`
	StartTradeID string          `json:"start_trade_id"`
	EndTradeID   string          `json:"end_trade_id"`
}

// StreakReport holds the best streak of each sign; nil when no trades
// of that sign exist
type StreakReport struct {
	BestWinning *Streak `json:"best_winning,omitempty"`
	BestLosing  *Streak `json:"best_losing,omitempty"`
}

// DrawdownPoint is one step of the cumulative equity curve. Drawdown is a
// negative percentage of the running peak; when the peak is not positive
// the point falls back to absolute currency decline and Absolute is set.
type DrawdownPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
	Drawdown  float64   `json:"drawdown"`
	Absolute  bool      `json:"absolute,omitempty"`
}

// DrawdownReport holds the equity curve and its worst decline
type DrawdownReport struct {
	Points []DrawdownPoint `json:"points,omitempty"`
	Max    *DrawdownPoint  `json:"max,omitempty"`
}

// EmotionStat is the aggregate outcome of all trades carrying one emotion
// tag. ImpactScore is the deviation from the trader's baseline:
// net_pnl − baseline_pnl_per_trade × trade_count.
type EmotionStat struct {
	Tag         string  `json:"tag"`
	TradeCount  int     `json:"trade_count"`
	WinRate     Metric  `json:"win_rate"`
	NetPnL      float64 `json:"net_pnl"`
	ImpactScore float64 `json:"impact_score"`
}

// LeakSeverity buckets a leak by its absolute cost
type LeakSeverity string

const (
	SeverityLow      LeakSeverity = "low"
	SeverityMedium   LeakSeverity = "medium"
	SeverityHigh     LeakSeverity = "high"
	SeverityCritical LeakSeverity = "critical"
)

// LeakRecord flags a behavioral tag whose aggregate outcome is
// significantly worse than the trader's baseline
type LeakRecord struct {
	Category  string       `json:"category"`
	Name      string       `json:"name"`
	Cost      float64      `json:"cost"` // positive currency amount
	Frequency int          `json:"frequency"`
	Severity  LeakSeverity `json:"severity"`
}

// TriggerStat is the descriptive aggregate for one decision trigger tag
type TriggerStat struct {
	Tag        string  `json:"tag"`
	UsageCount int     `json:"usage_count"`
	WinRate    Metric  `json:"win_rate"`
	NetResult  float64 `json:"net_result"`
}

// ConfidenceBucket aggregates trades sharing one self-reported
// confidence level
type ConfidenceBucket struct {
	Level      int     `json:"level"`
	TradeCount int     `json:"trade_count"`
	WinRate    Metric  `json:"win_rate"`
	AvgPnL     float64 `json:"avg_pnl"`
}

// HeatmapCell is the aggregate outcome for one time-bucket or symbol group.
// Empty cells are absent from the grid, never zero-filled.
type HeatmapCell struct {
	Key        string  `json:"dimension_key"`
	TradeCount int     `json:"trade_count"`
	NetPnL     float64 `json:"net_pnl"`
	WinRate    Metric  `json:"win_rate"`
}

// Heatmap holds both groupings over the same trade set
type Heatmap struct {
	ByTimeOfWeek []HeatmapCell `json:"by_time_of_week,omitempty"`
	BySymbol     []HeatmapCell `json:"by_symbol,omitempty"`
}

// StrategyStat is the aggregate outcome for one strategy/playbook
type StrategyStat struct {
	StrategyID string  `json:"strategy_id"`
	TradeCount int     `json:"trade_count"`
	WinRate    Metric  `json:"win_rate"`
	TotalPnL   float64 `json:"total_pnl"`
	AvgReturn  Metric  `json:"avg_return"` // mean pnl per trade
}

// Warning records a trade that was skipped as malformed; it never aborts
// the batch
type Warning struct {
	TradeID string `json:"trade_id,omitempty"`
	Reason  string `json:"reason"`
}

// =============================================================================
// Summary
// =============================================================================

// Section names for the availability map
const (
	SectionStreaks    = "streaks"
	SectionDrawdown   = "drawdown"
	SectionEmotion    = "emotion"
	SectionTriggers   = "triggers"
	SectionConfidence = "confidence"
	SectionHeatmap    = "heatmap"
	SectionStrategy   = "strategy"
)

// AnalyticsSummary is the root aggregate returned to callers. It is
// constructed fresh on every ComputeSummary call and holds no timestamps
// or other non-deterministic state: identical inputs produce an identical
// summary.
type AnalyticsSummary struct {
	Range contracts.DateRange `json:"range"`

	TotalTrades    int     `json:"total_trades"`
	TotalPnL       float64 `json:"total_pnl"`
	OverallWinRate Metric  `json:"overall_win_rate"`
	ProfitFactor   Metric  `json:"profit_factor"`

	Streaks  StreakReport   `json:"streaks"`
	Drawdown DrawdownReport `json:"drawdown"`

	StrategyStats    []StrategyStat     `json:"strategy_stats,omitempty"`
	EmotionImpact    []EmotionStat      `json:"emotion_impact,omitempty"`
	TriggerAnalysis  []TriggerStat      `json:"trigger_analysis,omitempty"`
	ConfidenceStats  []ConfidenceBucket `json:"confidence_analysis,omitempty"`
	EmotionalLeaks   []LeakRecord       `json:"emotional_leaks,omitempty"`
	Heatmap          Heatmap            `json:"heatmap"`

	MostProfitableEmotion *EmotionStat `json:"most_profitable_emotion,omitempty"`
	MostCostlyEmotion     *EmotionStat `json:"most_costly_emotion,omitempty"`

	HesitationCost     float64 `json:"hesitation_cost"`
	FOMOImpact         float64 `json:"fomo_impact"`
	RevengeTradingCost float64 `json:"revenge_trading_cost"`

	ConfidenceCorrelation Metric `json:"confidence_vs_performance_correlation"`

	// Sections maps section name to availability; a failed or timed-out
	// section is present and false
	Sections map[string]bool `json:"sections"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// WhatIfResult quantifies one counterfactual over historical trades.
// It audits past decisions; it makes no claim about future trades.
type WhatIfResult struct {
	RunID          string      `json:"run_id"`
	Filter         TradeFilter `json:"filter"`
	Baseline       CoreMetrics `json:"baseline"`
	Filtered       CoreMetrics `json:"filtered"`
	WinRateDelta   Metric      `json:"win_rate_delta"`
	PnLDelta       float64     `json:"pnl_delta"`
	ExcludedTrades int         `json:"excluded_trades"`
}

// Timeline types: per-day series plus weekday aggregates

// DayPoint is one day's realized outcome; days without trades are absent
type DayPoint struct {
	Date       string  `json:"date"` // 2006-01-02
	TradeCount int     `json:"trade_count"`
	NetPnL     float64 `json:"net_pnl"`
	WinRate    Metric  `json:"win_rate"`
}

// WeekdayStat aggregates all trades entered on one weekday
type WeekdayStat struct {
	Weekday    string  `json:"weekday"`
	TradeCount int     `json:"trade_count"`
	NetPnL     float64 `json:"net_pnl"`
	WinRate    Metric  `json:"win_rate"`
}

// Timeline is the thin derived view served next to the full summary
type Timeline struct {
	Range    contracts.DateRange `json:"range"`
	Days     []DayPoint          `json:"days,omitempty"`
	Weekdays []WeekdayStat       `json:"weekdays,omitempty"`
	Warnings []Warning           `json:"warnings,omitempty"`
}
