package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/tradelens/backend/pkg/logger"
)

// RunPruner deletes compute-run audit rows older than a cutoff
type RunPruner interface {
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionJob prunes old compute-run audit rows
type RetentionJob struct {
	pruner     RunPruner
	retainDays int
	logger     *logger.Logger
}

// NewRetentionJob creates a new retention job keeping retainDays of
// audit history
func NewRetentionJob(pruner RunPruner, retainDays int, log *logger.Logger) *RetentionJob {
	return &RetentionJob{
		pruner:     pruner,
		retainDays: retainDays,
		logger:     log,
	}
}

// Name returns the job name
func (j *RetentionJob) Name() string {
	return "compute_run_retention"
}

// Schedule returns the cron schedule (03:15 every day)
func (j *RetentionJob) Schedule() string {
	return "0 15 3 * * *"
}

// Run deletes audit rows older than the retention window
func (j *RetentionJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.retainDays)

	deleted, err := j.pruner.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune compute runs: %w", err)
	}

	if deleted > 0 {
		j.logger.WithFields(map[string]interface{}{
			"deleted": deleted,
			"cutoff":  cutoff.Format("2006-01-02"),
		}).Info("Compute run retention completed")
	}

	return nil
}
