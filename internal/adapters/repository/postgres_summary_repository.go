package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

type PostgresSummaryRepository struct {
	db *sqlx.DB
}

func NewPostgresSummaryRepository(db *sqlx.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: db}
}

// UpsertBatch overwrites on conflict: the freshly computed values always win,
// which is what makes the lazy full-window recompute safe to repeat.
func (r *PostgresSummaryRepository) UpsertBatch(ctx context.Context, rows []*domain.DailySummary) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
        INSERT INTO daily_summaries (owner_id, date_key, total_goals, completed_goals, success_rate, updated_at)
        VALUES (:owner_id, :date_key, :total_goals, :completed_goals, :success_rate, :updated_at)
        ON CONFLICT (owner_id, date_key)
        DO UPDATE SET total_goals = EXCLUDED.total_goals,
                      completed_goals = EXCLUDED.completed_goals,
                      success_rate = EXCLUDED.success_rate,
                      updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("summary upsert failed: %w", err)
	}
	return nil
}

func (r *PostgresSummaryRepository) ListByDates(ctx context.Context, ownerID string, dateKeys []string) ([]*domain.DailySummary, error) {
	summaries := []*domain.DailySummary{}
	if len(dateKeys) == 0 {
		return summaries, nil
	}

	query := `
        SELECT * FROM daily_summaries
        WHERE owner_id = $1 AND date_key = ANY($2)
        ORDER BY date_key DESC`

	if err := r.db.SelectContext(ctx, &summaries, query, ownerID, pq.Array(dateKeys)); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return summaries, nil
}

func (r *PostgresSummaryRepository) Delete(ctx context.Context, ownerID, dateKey string) error {
	query := `DELETE FROM daily_summaries WHERE owner_id = $1 AND date_key = $2`

	if _, err := r.db.ExecContext(ctx, query, ownerID, dateKey); err != nil {
		return fmt.Errorf("summary delete failed: %w", err)
	}
	return nil
}
