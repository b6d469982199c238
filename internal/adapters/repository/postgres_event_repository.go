package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

type PostgresEventRepository struct {
	db *sqlx.DB
}

func NewPostgresEventRepository(db *sqlx.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) Append(ctx context.Context, e *domain.TimelineEvent) error {
	query := `
        INSERT INTO timeline_events (owner_id, date_key, type, goal_id, payload, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		e.OwnerID, e.DateKey, e.Type, e.GoalID, e.Payload, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) ListByDates(ctx context.Context, ownerID string, dateKeys []string) ([]*domain.TimelineEvent, error) {
	events := []*domain.TimelineEvent{}
	if len(dateKeys) == 0 {
		return events, nil
	}

	query := `
        SELECT * FROM timeline_events
        WHERE owner_id = $1 AND date_key = ANY($2)
        ORDER BY date_key DESC, created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &events, query, ownerID, pq.Array(dateKeys)); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return events, nil
}

// ListPage resumes the descending feed after a sort-key tuple. Postgres
// row-value comparison matches the (date_key, created_at, id) index order.
func (r *PostgresEventRepository) ListPage(ctx context.Context, ownerID string, cursor *domain.EventCursor, limit int) ([]*domain.TimelineEvent, error) {
	events := []*domain.TimelineEvent{}

	if cursor == nil {
		query := `
            SELECT * FROM timeline_events
            WHERE owner_id = $1
            ORDER BY date_key DESC, created_at DESC, id DESC
            LIMIT $2`
		if err := r.db.SelectContext(ctx, &events, query, ownerID, limit); err != nil {
			return nil, fmt.Errorf("query error: %w", err)
		}
		return events, nil
	}

	query := `
        SELECT * FROM timeline_events
        WHERE owner_id = $1
          AND (date_key, created_at, id) < ($2, $3, $4)
        ORDER BY date_key DESC, created_at DESC, id DESC
        LIMIT $5`

	if err := r.db.SelectContext(ctx, &events, query, ownerID, cursor.DateKey, cursor.CreatedAt, cursor.ID, limit); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return events, nil
}

func (r *PostgresEventRepository) DeleteCheckins(ctx context.Context, ownerID, goalID, dateKey string) error {
	// Matches both the live column and payload-only legacy rows, so the
	// rewrite truly leaves one checkin per (date, goal).
	query := `
        DELETE FROM timeline_events
        WHERE owner_id = $1 AND date_key = $2 AND type = 'checkin'
          AND (goal_id = $3 OR payload->>'goal_id' = $3)`

	if _, err := r.db.ExecContext(ctx, query, ownerID, dateKey, goalID); err != nil {
		return fmt.Errorf("checkin delete failed: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) DeleteSummary(ctx context.Context, ownerID, dateKey string) error {
	query := `
        DELETE FROM timeline_events
        WHERE owner_id = $1 AND date_key = $2 AND type = 'summary'`

	if _, err := r.db.ExecContext(ctx, query, ownerID, dateKey); err != nil {
		return fmt.Errorf("summary delete failed: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) DeleteNoteEvents(ctx context.Context, ownerID, noteID string) error {
	query := `
        DELETE FROM timeline_events
        WHERE owner_id = $1 AND type = 'note' AND payload->>'note_id' = $2`

	if _, err := r.db.ExecContext(ctx, query, ownerID, noteID); err != nil {
		return fmt.Errorf("note event delete failed: %w", err)
	}
	return nil
}
