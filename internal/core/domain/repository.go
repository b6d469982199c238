package domain

import "context"

type GoalRepository interface {
	// Create persists a new goal definition.
	Create(ctx context.Context, goal *Goal) error

	// GetByID retrieves a goal scoped to its owner.
	GetByID(ctx context.Context, ownerID, id string) (*Goal, error)

	// ListByOwner retrieves every goal of an owner, oldest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Goal, error)

	// Update writes the full current state of a goal.
	Update(ctx context.Context, goal *Goal) error

	// UpdateTarget is the target-only fast path.
	UpdateTarget(ctx context.Context, ownerID, id string, target int) error

	// Delete hard-removes a goal. Completions cascade, event rows keep their
	// payload snapshot with goal_id nulled.
	Delete(ctx context.Context, ownerID, id string) error
}

type CompletionRepository interface {
	// Increment applies an insert-or-add on the (goal, date) counter and
	// returns the row after the change.
	Increment(ctx context.Context, ownerID, goalID, dateKey string, delta int) (*Completion, error)

	// ListByOwner returns every completion row of an owner.
	ListByOwner(ctx context.Context, ownerID string) ([]*Completion, error)

	// ListByGoal returns a single goal's completion rows.
	ListByGoal(ctx context.Context, ownerID, goalID string) ([]*Completion, error)
}

type EventRepository interface {
	// Append writes a new event row and fills in its assigned id.
	Append(ctx context.Context, event *TimelineEvent) error

	// ListByDates returns all events on the given dates ordered by
	// (date desc, created_at desc, id desc).
	ListByDates(ctx context.Context, ownerID string, dateKeys []string) ([]*TimelineEvent, error)

	// ListPage returns up to limit events strictly after the cursor in the
	// same descending order; a nil cursor starts from the newest event.
	ListPage(ctx context.Context, ownerID string, cursor *EventCursor, limit int) ([]*TimelineEvent, error)

	// DeleteCheckins removes checkin events for one (goal, date). Paired with
	// Append it is the write-side dedup for check-ins.
	DeleteCheckins(ctx context.Context, ownerID, goalID, dateKey string) error

	// DeleteSummary removes the summary event of a date, if any.
	DeleteSummary(ctx context.Context, ownerID, dateKey string) error

	// DeleteNoteEvents removes events whose payload references the note.
	DeleteNoteEvents(ctx context.Context, ownerID, noteID string) error
}

type NoteRepository interface {
	Create(ctx context.Context, note *TimelineNote) error
	GetByID(ctx context.Context, ownerID, id string) (*TimelineNote, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type SummaryRepository interface {
	// UpsertBatch writes summary rows keyed (owner, date); conflicts
	// overwrite with the freshly computed values.
	UpsertBatch(ctx context.Context, rows []*DailySummary) error

	// ListByDates returns the stored summaries for the given dates.
	ListByDates(ctx context.Context, ownerID string, dateKeys []string) ([]*DailySummary, error)

	// Delete drops the row for a date that no longer qualifies for storage.
	Delete(ctx context.Context, ownerID, dateKey string) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
}
