package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tradelens/backend/internal/analytics"
	"github.com/tradelens/backend/internal/analyticsconfig"
	"github.com/tradelens/backend/internal/contracts"
	"github.com/tradelens/backend/internal/report"
	"github.com/tradelens/backend/pkg/logger"
)

type fakeUsers struct {
	users []string
	err   error
}

func (f *fakeUsers) ActiveUsers(_ context.Context, _ time.Time) ([]string, error) {
	return f.users, f.err
}

type fakeTradeRepo struct {
	errFor map[string]error
	calls  []string
}

func (f *fakeTradeRepo) FetchTrades(_ context.Context, userID string, _ contracts.DateRange) ([]contracts.Trade, error) {
	f.calls = append(f.calls, userID)
	if err := f.errFor[userID]; err != nil {
		return nil, err
	}
	return nil, nil
}

type fakePruner struct {
	deleted int64
	err     error
	cutoff  time.Time
}

func (f *fakePruner) DeleteRunsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func newTestService(repo contracts.TradeRepository) *report.Service {
	facade := analytics.NewFacade(analyticsconfig.Default(), logger.Nop())
	return report.NewService(repo, facade, nil, nil, "deadbeef", time.Minute, logger.Nop())
}

func TestPrecomputeJob_WarmsAllActiveUsers(t *testing.T) {
	repo := &fakeTradeRepo{}
	job := NewPrecomputeJob(
		&fakeUsers{users: []string{"u1", "u2", "u3"}},
		newTestService(repo), nil, logger.Nop(),
	)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(repo.calls) != 3 {
		t.Errorf("fetches = %d, want 3", len(repo.calls))
	}
}

func TestPrecomputeJob_OneUserFailing(t *testing.T) {
	repo := &fakeTradeRepo{errFor: map[string]error{"u2": errors.New("connection refused")}}
	job := NewPrecomputeJob(
		&fakeUsers{users: []string{"u1", "u2", "u3"}},
		newTestService(repo), nil, logger.Nop(),
	)

	// One user failing must not fail the sweep
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(repo.calls) != 3 {
		t.Errorf("fetches = %d, want 3", len(repo.calls))
	}
}

func TestPrecomputeJob_AllUsersFailing(t *testing.T) {
	repo := &fakeTradeRepo{errFor: map[string]error{
		"u1": errors.New("down"),
		"u2": errors.New("down"),
	}}
	job := NewPrecomputeJob(
		&fakeUsers{users: []string{"u1", "u2"}},
		newTestService(repo), nil, logger.Nop(),
	)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want error when every user failed")
	}
}

func TestPrecomputeJob_ListError(t *testing.T) {
	job := NewPrecomputeJob(
		&fakeUsers{err: errors.New("connection refused")},
		newTestService(&fakeTradeRepo{}), nil, logger.Nop(),
	)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want error")
	}
}

func TestPrecomputeJob_NoActiveUsers(t *testing.T) {
	repo := &fakeTradeRepo{}
	job := NewPrecomputeJob(&fakeUsers{}, newTestService(repo), nil, logger.Nop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(repo.calls) != 0 {
		t.Errorf("fetches = %d, want 0", len(repo.calls))
	}
}

func TestRetentionJob(t *testing.T) {
	pruner := &fakePruner{deleted: 42}
	job := NewRetentionJob(pruner, 90, logger.Nop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantCutoff := time.Now().UTC().AddDate(0, 0, -90)
	if diff := pruner.cutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v, want ~%v", pruner.cutoff, wantCutoff)
	}
}

func TestRetentionJob_PrunerError(t *testing.T) {
	job := NewRetentionJob(&fakePruner{err: errors.New("timeout")}, 90, logger.Nop())

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want error")
	}
}
