package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/tradelens/backend/internal/analyticsconfig"
	"github.com/tradelens/backend/internal/contracts"
	"github.com/tradelens/backend/pkg/logger"
)

// Facade orchestrates every aggregator into one AnalyticsSummary.
// ComputeSummary is a pure function of (trades, dateRange, profile): it
// holds no state between calls and identical inputs produce identical
// summaries regardless of goroutine scheduling.
type Facade struct {
	cfg *analyticsconfig.Config
	log *logger.Logger
}

// NewFacade creates a new analytics facade
func NewFacade(cfg *analyticsconfig.Config, log *logger.Logger) *Facade {
	return &Facade{
		cfg: cfg,
		log: log,
	}
}

// sectionOutcome is what one fan-out task hands back: ok plus a closure
// that writes the section's fields into the summary. The closure runs in
// the join step, in fixed section order, so no two tasks ever touch
// shared state.
type sectionOutcome struct {
	ok    bool
	apply func(*AnalyticsSummary)
}

// ComputeSummary computes the full analytics summary for one immutable
// trade snapshot. Malformed trades are skipped with warnings; a section
// that panics or overruns its deadline is marked unavailable while the
// rest of the summary is still returned.
func (f *Facade) ComputeSummary(ctx context.Context, trades []contracts.Trade, dateRange contracts.DateRange) (*AnalyticsSummary, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, fmt.Errorf("invalid date range: %w", err)
	}

	clean, warnings := Sanitize(trades)

	// The baseline is needed by the emotion section and the headline
	// fields alike; it is cheap, so it runs up front.
	core := ComputeCore(clean)

	summary := &AnalyticsSummary{
		Range:                 dateRange,
		TotalTrades:           core.TotalTrades,
		TotalPnL:              core.TotalPnL,
		OverallWinRate:        core.WinRate,
		ProfitFactor:          core.ProfitFactor,
		ConfidenceCorrelation: Undefined(ReasonInsufficientData),
		Warnings:              warnings,
	}

	type task struct {
		name string
		run  func() func(*AnalyticsSummary)
	}

	tasks := []task{
		{SectionStreaks, func() func(*AnalyticsSummary) {
			streaks := AnalyzeStreaks(clean)
			return func(s *AnalyticsSummary) { s.Streaks = streaks }
		}},
		{SectionDrawdown, func() func(*AnalyticsSummary) {
			dd := TrackDrawdown(clean, f.cfg.Compute.Epsilon)
			return func(s *AnalyticsSummary) { s.Drawdown = dd }
		}},
		{SectionEmotion, func() func(*AnalyticsSummary) {
			stats := AnalyzeEmotions(clean, core)
			leaks := DetectLeaks(stats, f.cfg.Leaks)
			best := MostProfitableEmotion(stats)
			worst := MostCostlyEmotion(stats)
			hesitation, fomo, revenge := BehaviorCosts(stats, f.cfg.Behavior)
			return func(s *AnalyticsSummary) {
				s.EmotionImpact = stats
				s.EmotionalLeaks = leaks
				s.MostProfitableEmotion = best
				s.MostCostlyEmotion = worst
				s.HesitationCost = hesitation
				s.FOMOImpact = fomo
				s.RevengeTradingCost = revenge
			}
		}},
		{SectionTriggers, func() func(*AnalyticsSummary) {
			stats := AnalyzeTriggers(clean)
			return func(s *AnalyticsSummary) { s.TriggerAnalysis = stats }
		}},
		{SectionConfidence, func() func(*AnalyticsSummary) {
			buckets := CalibrateConfidence(clean)
			corr := ConfidenceCorrelation(clean)
			return func(s *AnalyticsSummary) {
				s.ConfidenceStats = buckets
				s.ConfidenceCorrelation = corr
			}
		}},
		{SectionHeatmap, func() func(*AnalyticsSummary) {
			hm := BuildHeatmap(clean)
			return func(s *AnalyticsSummary) { s.Heatmap = hm }
		}},
		{SectionStrategy, func() func(*AnalyticsSummary) {
			stats := AnalyzeStrategies(clean)
			return func(s *AnalyticsSummary) { s.StrategyStats = stats }
		}},
	}

	// Fan-out: every section runs over the same read-only slice with its
	// own deadline; a slow section never blocks the others.
	outcomes := make([]sectionOutcome, len(tasks))
	var wg sync.WaitGroup
	for i, tk := range tasks {
		wg.Add(1)
		go func(i int, tk task) {
			defer wg.Done()
			outcomes[i] = f.runSection(ctx, tk.name, tk.run)
		}(i, tk)
	}
	wg.Wait()

	// Fan-in: apply results in fixed task order
	summary.Sections = make(map[string]bool, len(tasks))
	for i, tk := range tasks {
		summary.Sections[tk.name] = outcomes[i].ok
		if outcomes[i].ok {
			outcomes[i].apply(summary)
		}
	}

	return summary, nil
}

// runSection executes one aggregator with panic isolation and a deadline.
// On timeout the worker goroutine's eventual result is discarded through
// its buffered channel; nothing leaks and nothing races on the summary.
func (f *Facade) runSection(ctx context.Context, name string, run func() func(*AnalyticsSummary)) sectionOutcome {
	sctx, cancel := context.WithTimeout(ctx, f.cfg.Compute.SectionTimeout())
	defer cancel()

	type result struct {
		apply func(*AnalyticsSummary)
		err   error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: section %s: %v", ErrComputation, name, r)}
			}
		}()
		done <- result{apply: run()}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			f.log.WithError(res.err).WithField("section", name).Error("Analytics section failed")
			return sectionOutcome{ok: false}
		}
		return sectionOutcome{ok: true, apply: res.apply}
	case <-sctx.Done():
		f.log.WithFields(map[string]interface{}{
			"section": name,
			"timeout": f.cfg.Compute.SectionTimeout().String(),
		}).Warn("Analytics section deadline exceeded")
		return sectionOutcome{ok: false}
	}
}

// ComputeHeatmap serves the standalone heatmap view from the same
// sanitize pass the summary uses
func (f *Facade) ComputeHeatmap(trades []contracts.Trade, dateRange contracts.DateRange) (*Heatmap, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, fmt.Errorf("invalid date range: %w", err)
	}

	clean, _ := Sanitize(trades)
	hm := BuildHeatmap(clean)
	return &hm, nil
}
