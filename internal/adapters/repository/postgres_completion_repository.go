package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

// Increment is a single-statement insert-or-add on the (goal, date) counter.
// Keeping it one statement is what makes concurrent check-ins add up instead
// of overwriting each other.
func (r *PostgresCompletionRepository) Increment(ctx context.Context, ownerID, goalID, dateKey string, delta int) (*domain.Completion, error) {
	query := `
        INSERT INTO completions (id, owner_id, goal_id, date_key, count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        ON CONFLICT (goal_id, date_key)
        DO UPDATE SET count = completions.count + EXCLUDED.count, updated_at = NOW()
        RETURNING id, owner_id, goal_id, date_key, count, created_at, updated_at`

	var c domain.Completion
	err := r.db.GetContext(ctx, &c, query, uuid.NewString(), ownerID, goalID, dateKey, delta)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("completion upsert failed: %w", err)
	}
	return &c, nil
}

func (r *PostgresCompletionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}
	query := `
        SELECT * FROM completions
        WHERE owner_id = $1
        ORDER BY date_key DESC`

	if err := r.db.SelectContext(ctx, &completions, query, ownerID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) ListByGoal(ctx context.Context, ownerID, goalID string) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}
	query := `
        SELECT * FROM completions
        WHERE owner_id = $1 AND goal_id = $2
        ORDER BY date_key DESC`

	if err := r.db.SelectContext(ctx, &completions, query, ownerID, goalID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return completions, nil
}
