package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

type PostgresGoalRepository struct {
	db *sqlx.DB
}

func NewPostgresGoalRepository(db *sqlx.DB) *PostgresGoalRepository {
	return &PostgresGoalRepository{db: db}
}

func (r *PostgresGoalRepository) Create(ctx context.Context, g *domain.Goal) error {
	query := `
        INSERT INTO goals (
            id, owner_id, title, description, target_per_day, icon, color,
            created_at, updated_at
        ) VALUES (
            :id, :owner_id, :title, :description, :target_per_day, :icon, :color,
            :created_at, :updated_at
        )`

	if _, err := r.db.NamedExecContext(ctx, query, g); err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (r *PostgresGoalRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Goal, error) {
	var g domain.Goal
	query := `SELECT * FROM goals WHERE owner_id = $1 AND id = $2`

	err := r.db.GetContext(ctx, &g, query, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &g, nil
}

func (r *PostgresGoalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Goal, error) {
	goals := []*domain.Goal{}
	query := `
        SELECT * FROM goals
        WHERE owner_id = $1
        ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &goals, query, ownerID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return goals, nil
}

func (r *PostgresGoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	query := `
        UPDATE goals SET
            title = :title, description = :description,
            target_per_day = :target_per_day, icon = :icon, color = :color,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id`

	result, err := r.db.NamedExecContext(ctx, query, g)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *PostgresGoalRepository) UpdateTarget(ctx context.Context, ownerID, id string, target int) error {
	query := `
        UPDATE goals
        SET target_per_day = $1, updated_at = NOW()
        WHERE owner_id = $2 AND id = $3`

	result, err := r.db.ExecContext(ctx, query, target, ownerID, id)
	if err != nil {
		return fmt.Errorf("target update failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// Delete hard-removes the goal. The schema cascades completions and nulls
// out timeline_events.goal_id; the event payload keeps the history.
func (r *PostgresGoalRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM goals WHERE owner_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}
