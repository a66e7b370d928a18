package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradelens/backend/internal/analytics"
	"github.com/tradelens/backend/internal/contracts"
	"github.com/tradelens/backend/pkg/logger"
	"github.com/tradelens/backend/pkg/redis"
)

// Run kinds recorded in the audit trail
const (
	KindSummary  = "summary"
	KindTimeline = "timeline"
	KindHeatmap  = "heatmap"
	KindWhatIf   = "whatif"
)

// RunRecorder persists compute-run audit rows. Nil disables auditing.
type RunRecorder interface {
	RecordRun(ctx context.Context, run ComputeRun) error
}

// Service orchestrates fetch, compute, memoize and audit for every
// analytics report
// ⭐ SSOT: cache keys are built only here. They embed the profile hash
// so a config change invalidates every cached report at once.
type Service struct {
	repo        contracts.TradeRepository
	facade      *analytics.Facade
	cache       *redis.Cache // nil when redis is disabled
	runs        RunRecorder  // nil disables auditing
	profileHash string
	ttl         time.Duration
	log         *logger.Logger
}

// NewService creates a new report service
func NewService(
	repo contracts.TradeRepository,
	facade *analytics.Facade,
	cache *redis.Cache,
	runs RunRecorder,
	profileHash string,
	ttl time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		facade:      facade,
		cache:       cache,
		runs:        runs,
		profileHash: profileHash,
		ttl:         ttl,
		log:         log,
	}
}

// Summary returns the full behavioral summary for the range, served
// from cache when a prior run with the same profile hash exists.
func (s *Service) Summary(ctx context.Context, userID string, dateRange contracts.DateRange) (*analytics.AnalyticsSummary, error) {
	key := s.cacheKey(userID, KindSummary, dateRange)

	var cached analytics.AnalyticsSummary
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	trades, err := s.repo.FetchTrades(ctx, userID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	started := time.Now()
	summary, err := s.facade.ComputeSummary(ctx, trades, dateRange)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, summary)
	s.audit(ctx, userID, dateRange, KindSummary, summary.TotalTrades, len(summary.Warnings), started)

	return summary, nil
}

// Timeline returns daily equity points and weekday aggregates
func (s *Service) Timeline(ctx context.Context, userID string, dateRange contracts.DateRange) (*analytics.Timeline, error) {
	key := s.cacheKey(userID, KindTimeline, dateRange)

	var cached analytics.Timeline
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	trades, err := s.repo.FetchTrades(ctx, userID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	started := time.Now()
	timeline, err := analytics.ComputeTimeline(trades, dateRange)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, timeline)
	s.audit(ctx, userID, dateRange, KindTimeline, len(trades), 0, started)

	return timeline, nil
}

// Heatmap returns performance cells by time-of-week and by symbol
func (s *Service) Heatmap(ctx context.Context, userID string, dateRange contracts.DateRange) (*analytics.Heatmap, error) {
	key := s.cacheKey(userID, KindHeatmap, dateRange)

	var cached analytics.Heatmap
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	trades, err := s.repo.FetchTrades(ctx, userID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	started := time.Now()
	heatmap, err := s.facade.ComputeHeatmap(trades, dateRange)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, heatmap)
	s.audit(ctx, userID, dateRange, KindHeatmap, len(trades), 0, started)

	return heatmap, nil
}

// WhatIf replays the range under each filter scenario. Results are
// never cached: filters are free-form and rarely repeat.
func (s *Service) WhatIf(ctx context.Context, userID string, dateRange contracts.DateRange, filters []analytics.TradeFilter) ([]analytics.WhatIfResult, error) {
	trades, err := s.repo.FetchTrades(ctx, userID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	started := time.Now()
	results, err := analytics.SimulateBatch(ctx, trades, filters)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, userID, dateRange, KindWhatIf, len(trades), 0, started)

	return results, nil
}

// Invalidate drops every cached report for the user, across all ranges
// and kinds. Returns the number of keys removed.
func (s *Service) Invalidate(ctx context.Context, userID string) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	deleted, err := s.cache.DeleteByPrefix(ctx, userID+":")
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate cache: %w", err)
	}
	s.log.WithFields(map[string]interface{}{
		"user_id": userID,
		"deleted": deleted,
	}).Info("Analytics cache invalidated")
	return deleted, nil
}

// ProfileHash exposes the active profile hash for diagnostics
func (s *Service) ProfileHash() string {
	return s.profileHash
}

// cacheKey puts the user id first so Invalidate can clear one user
// with a single prefix scan
func (s *Service) cacheKey(userID, kind string, dateRange contracts.DateRange) string {
	hash := s.profileHash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return fmt.Sprintf("%s:%s:%s:%s", userID, kind, dateRange.Key(), hash)
}

func (s *Service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	return found
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// audit records one compute run; failures are logged, never surfaced
func (s *Service) audit(ctx context.Context, userID string, dateRange contracts.DateRange, kind string, trades, warnings int, started time.Time) {
	if s.runs == nil {
		return
	}
	run := ComputeRun{
		ID:          uuid.NewString(),
		UserID:      userID,
		RangeKey:    dateRange.Key(),
		ProfileHash: s.profileHash,
		Kind:        kind,
		TradeCount:  trades,
		Warnings:    warnings,
		DurationMS:  time.Since(started).Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		s.log.WithError(err).WithField("kind", kind).Warn("Failed to record compute run")
	}
}
