package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ComputeRun is one audit row per analytics computation, cached hits
// excluded. Retention is handled by the scheduler's cleanup job.
type ComputeRun struct {
	ID          string
	UserID      string
	RangeKey    string
	ProfileHash string
	Kind        string
	TradeCount  int
	Warnings    int
	DurationMS  int64
	CreatedAt   time.Time
}

// Repository persists compute-run audit rows
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new compute-run repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordRun inserts one audit row
func (r *Repository) RecordRun(ctx context.Context, run ComputeRun) error {
	query := `
		INSERT INTO analytics.compute_runs
			(id, user_id, range_key, profile_hash, kind, trade_count, warnings, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID, run.UserID, run.RangeKey, run.ProfileHash, run.Kind,
		run.TradeCount, run.Warnings, run.DurationMS, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record compute run: %w", err)
	}
	return nil
}

// RecentRuns returns the user's latest audit rows, newest first
func (r *Repository) RecentRuns(ctx context.Context, userID string, limit int) ([]ComputeRun, error) {
	query := `
		SELECT id, user_id, range_key, profile_hash, kind, trade_count, warnings, duration_ms, created_at
		FROM analytics.compute_runs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query compute runs: %w", err)
	}
	defer rows.Close()

	runs := make([]ComputeRun, 0, limit)
	for rows.Next() {
		var run ComputeRun
		if err := rows.Scan(
			&run.ID, &run.UserID, &run.RangeKey, &run.ProfileHash, &run.Kind,
			&run.TradeCount, &run.Warnings, &run.DurationMS, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan compute run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read compute runs: %w", err)
	}
	return runs, nil
}

// DeleteRunsBefore removes audit rows older than the cutoff and
// returns the number deleted
func (r *Repository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM analytics.compute_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete compute runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
