package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

type PostgresNoteRepository struct {
	db *sqlx.DB
}

func NewPostgresNoteRepository(db *sqlx.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{db: db}
}

func (r *PostgresNoteRepository) Create(ctx context.Context, n *domain.TimelineNote) error {
	query := `
        INSERT INTO timeline_notes (id, owner_id, date_key, content, created_at)
        VALUES (:id, :owner_id, :date_key, :content, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

func (r *PostgresNoteRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.TimelineNote, error) {
	var n domain.TimelineNote
	query := `SELECT * FROM timeline_notes WHERE owner_id = $1 AND id = $2`

	err := r.db.GetContext(ctx, &n, query, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &n, nil
}

func (r *PostgresNoteRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM timeline_notes WHERE owner_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}
