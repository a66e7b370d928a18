package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/tradelens/backend/internal/contracts"
	"github.com/tradelens/backend/internal/realtime"
	"github.com/tradelens/backend/internal/report"
	"github.com/tradelens/backend/pkg/logger"
)

// precomputeWindowDays is the range warmed for every active user,
// matching the dashboard's default view
const precomputeWindowDays = 30

// ActiveUserLister names users with recent trading activity
type ActiveUserLister interface {
	ActiveUsers(ctx context.Context, since time.Time) ([]string, error)
}

// PrecomputeJob warms the summary cache for every user active in the
// last window, so the first dashboard load of the day is a cache hit
type PrecomputeJob struct {
	users   ActiveUserLister
	service *report.Service
	hub     *realtime.Hub // nil disables refresh notifications
	logger  *logger.Logger
}

// NewPrecomputeJob creates a new precompute job
func NewPrecomputeJob(users ActiveUserLister, service *report.Service, hub *realtime.Hub, log *logger.Logger) *PrecomputeJob {
	return &PrecomputeJob{
		users:   users,
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// Name returns the job name
func (j *PrecomputeJob) Name() string {
	return "analytics_precompute"
}

// Schedule returns the cron schedule (02:30 every day)
func (j *PrecomputeJob) Schedule() string {
	return "0 30 2 * * *"
}

// Run warms summaries for all active users. A single user failing does
// not stop the sweep; the job fails only when every user failed.
func (j *PrecomputeJob) Run(ctx context.Context) error {
	now := time.Now().UTC()
	dateRange := contracts.LastNDays(now, precomputeWindowDays)

	users, err := j.users.ActiveUsers(ctx, dateRange.From)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}
	if len(users) == 0 {
		j.logger.Debug("No active users to precompute")
		return nil
	}

	failed := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := j.service.Summary(ctx, userID, dateRange); err != nil {
			failed++
			j.logger.WithError(err).WithField("user_id", userID).Warn("Precompute failed for user")
			continue
		}
		if j.hub != nil {
			j.hub.Notify(userID, realtime.EventSummaryRefreshed)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"users":  len(users),
		"failed": failed,
	}).Info("Analytics precompute completed")

	if failed == len(users) {
		return fmt.Errorf("precompute failed for all %d users", failed)
	}
	return nil
}
