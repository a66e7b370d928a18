package trades

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradelens/backend/internal/contracts"
)

// Repository reads normalized trade records from PostgreSQL
// ⭐ SSOT: trade queries live only here. The analytics engine never
// writes trades; ingestion owns the journal.trades table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new trade repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchTrades returns the user's trades whose entry time falls inside the
// half-open range, ordered by entry time then id. DISTINCT ON keeps the
// first row per trade id so an ingestion hiccup cannot feed the engine
// duplicates.
func (r *Repository) FetchTrades(ctx context.Context, userID string, dateRange contracts.DateRange) ([]contracts.Trade, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, fmt.Errorf("invalid date range: %w", err)
	}

	query := `
		SELECT DISTINCT ON (id)
			id, symbol, entry_time, exit_time, entry_price, exit_price,
			quantity, direction, pnl,
			COALESCE(strategy_id, ''),
			COALESCE(emotion_tags, '{}'),
			COALESCE(trigger_tags, '{}'),
			COALESCE(confidence_level, 0)
		FROM journal.trades
		WHERE user_id = $1
		  AND entry_time >= $2
		  AND entry_time < $3
		ORDER BY id, entry_time
	`

	rows, err := r.pool.Query(ctx, query, userID, dateRange.From, dateRange.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]contracts.Trade, 0)
	for rows.Next() {
		var t contracts.Trade
		var direction string
		if err := rows.Scan(
			&t.ID, &t.Symbol, &t.EntryTime, &t.ExitTime, &t.EntryPrice, &t.ExitPrice,
			&t.Quantity, &direction, &t.PnL,
			&t.StrategyID, &t.EmotionTags, &t.TriggerTags, &t.Confidence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.Direction = contracts.Direction(direction)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trades: %w", err)
	}

	// The DISTINCT ON pass orders by id; the engine's contract is entry
	// order, restored here once
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].EntryTime.Before(trades[j].EntryTime)
	})

	return trades, nil
}

// ActiveUsers returns the ids of users who closed at least one trade
// since the given time. Used by the nightly precompute job.
func (r *Repository) ActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT user_id
		FROM journal.trades
		WHERE exit_time >= $1
		ORDER BY user_id
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}
	defer rows.Close()

	users := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read active users: %w", err)
	}

	return users, nil
}

// CountTrades returns the user's total journal size, used by the
// test-db diagnostic command
func (r *Repository) CountTrades(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM journal.trades WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}
