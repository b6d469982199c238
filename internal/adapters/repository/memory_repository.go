package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

// In-memory implementations of every repository, sharing the postgres
// adapters' ordering and error contracts. They back the service tests and
// double as a storage mode for local development.

type InMemoryGoalRepository struct {
	store map[string]*domain.Goal

	// Optional references that replay the schema's referential actions on
	// goal delete: completions cascade, event goal_ids null out.
	completions *InMemoryCompletionRepository
	events      *InMemoryEventRepository

	mu sync.RWMutex
}

func NewInMemoryGoalRepository() *InMemoryGoalRepository {
	return &InMemoryGoalRepository{
		store: make(map[string]*domain.Goal),
	}
}

// WithReferentialActions wires the sibling stores so Delete behaves like the
// postgres schema (ON DELETE CASCADE / SET NULL).
func (r *InMemoryGoalRepository) WithReferentialActions(completions *InMemoryCompletionRepository, events *InMemoryEventRepository) *InMemoryGoalRepository {
	r.completions = completions
	r.events = events
	return r
}

func (r *InMemoryGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *goal
	r.store[goal.ID] = &clone
	return nil
}

func (r *InMemoryGoalRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.store[id]
	if !ok || g.OwnerID != ownerID {
		return nil, domain.ErrGoalNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *InMemoryGoalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var goals []*domain.Goal
	for _, g := range r.store {
		if g.OwnerID == ownerID {
			clone := *g
			goals = append(goals, &clone)
		}
	}

	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].ID < goals[j].ID
	})

	return goals, nil
}

func (r *InMemoryGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[goal.ID]
	if !ok || existing.OwnerID != goal.OwnerID {
		return domain.ErrGoalNotFound
	}
	clone := *goal
	r.store[goal.ID] = &clone
	return nil
}

func (r *InMemoryGoalRepository) UpdateTarget(ctx context.Context, ownerID, id string, target int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.store[id]
	if !ok || g.OwnerID != ownerID {
		return domain.ErrGoalNotFound
	}
	g.TargetPerDay = target
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryGoalRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	g, ok := r.store[id]
	if !ok || g.OwnerID != ownerID {
		r.mu.Unlock()
		return domain.ErrGoalNotFound
	}
	delete(r.store, id)
	r.mu.Unlock()

	if r.completions != nil {
		r.completions.DeleteByGoal(id)
	}
	if r.events != nil {
		r.events.NullGoalRefs(id)
	}
	return nil
}

type InMemoryCompletionRepository struct {
	store map[string]*domain.Completion // keyed goalID|dateKey

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		store: make(map[string]*domain.Completion),
	}
}

func (r *InMemoryCompletionRepository) Increment(ctx context.Context, ownerID, goalID, dateKey string, delta int) (*domain.Completion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := goalID + "|" + dateKey
	now := time.Now().UTC()

	c, ok := r.store[key]
	if !ok {
		c = &domain.Completion{
			ID:        uuid.NewString(),
			OwnerID:   ownerID,
			GoalID:    goalID,
			DateKey:   dateKey,
			CreatedAt: now,
		}
		r.store[key] = c
	}

	c.Count += delta
	c.UpdatedAt = now

	clone := *c
	return &clone, nil
}

func (r *InMemoryCompletionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.OwnerID == ownerID {
			clone := *c
			completions = append(completions, &clone)
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].DateKey > completions[j].DateKey
	})

	return completions, nil
}

func (r *InMemoryCompletionRepository) ListByGoal(ctx context.Context, ownerID, goalID string) ([]*domain.Completion, error) {
	all, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var completions []*domain.Completion
	for _, c := range all {
		if c.GoalID == goalID {
			completions = append(completions, c)
		}
	}
	return completions, nil
}

// DeleteByGoal mirrors the FK cascade that postgres performs on goal delete.
func (r *InMemoryCompletionRepository) DeleteByGoal(goalID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, c := range r.store {
		if c.GoalID == goalID {
			delete(r.store, key)
		}
	}
}

type InMemoryEventRepository struct {
	events []*domain.TimelineEvent
	nextID int64

	mu sync.RWMutex
}

func NewInMemoryEventRepository() *InMemoryEventRepository {
	return &InMemoryEventRepository{nextID: 1}
}

func (r *InMemoryEventRepository) Append(ctx context.Context, event *domain.TimelineEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = r.nextID
	r.nextID++

	clone := *event
	r.events = append(r.events, &clone)
	return nil
}

func feedOrderDesc(events []*domain.TimelineEvent) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.DateKey != b.DateKey {
			return a.DateKey > b.DateKey
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func (r *InMemoryEventRepository) ListByDates(ctx context.Context, ownerID string, dateKeys []string) ([]*domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(dateKeys))
	for _, key := range dateKeys {
		wanted[key] = true
	}

	var out []*domain.TimelineEvent
	for _, e := range r.events {
		if e.OwnerID == ownerID && wanted[e.DateKey] {
			clone := *e
			out = append(out, &clone)
		}
	}

	feedOrderDesc(out)
	return out, nil
}

func (r *InMemoryEventRepository) ListPage(ctx context.Context, ownerID string, cursor *domain.EventCursor, limit int) ([]*domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.TimelineEvent
	for _, e := range r.events {
		if e.OwnerID != ownerID {
			continue
		}
		if cursor != nil && !cursor.After(e) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}

	feedOrderDesc(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryEventRepository) DeleteCheckins(ctx context.Context, ownerID, goalID, dateKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	for _, e := range r.events {
		match := e.OwnerID == ownerID && e.DateKey == dateKey && e.Type == domain.EventTypeCheckin &&
			domain.CheckinGoalID(e.Payload, e.GoalID) == goalID
		if !match {
			kept = append(kept, e)
		}
	}
	r.events = kept
	return nil
}

func (r *InMemoryEventRepository) DeleteSummary(ctx context.Context, ownerID, dateKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	for _, e := range r.events {
		if e.OwnerID == ownerID && e.DateKey == dateKey && e.Type == domain.EventTypeSummary {
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return nil
}

func (r *InMemoryEventRepository) DeleteNoteEvents(ctx context.Context, ownerID, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	for _, e := range r.events {
		if e.OwnerID == ownerID && e.Type == domain.EventTypeNote && domain.ParseNotePayload(e.Payload).NoteID == noteID {
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return nil
}

// NullGoalRefs mirrors the FK SET NULL that postgres performs on goal delete.
func (r *InMemoryEventRepository) NullGoalRefs(goalID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.GoalID != nil && *e.GoalID == goalID {
			e.GoalID = nil
		}
	}
}

type InMemoryNoteRepository struct {
	store map[string]*domain.TimelineNote

	mu sync.RWMutex
}

func NewInMemoryNoteRepository() *InMemoryNoteRepository {
	return &InMemoryNoteRepository{
		store: make(map[string]*domain.TimelineNote),
	}
}

func (r *InMemoryNoteRepository) Create(ctx context.Context, note *domain.TimelineNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *note
	r.store[note.ID] = &clone
	return nil
}

func (r *InMemoryNoteRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.TimelineNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.store[id]
	if !ok || n.OwnerID != ownerID {
		return nil, domain.ErrNoteNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *InMemoryNoteRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.store[id]
	if !ok || n.OwnerID != ownerID {
		return domain.ErrNoteNotFound
	}
	delete(r.store, id)
	return nil
}

type InMemorySummaryRepository struct {
	store map[string]*domain.DailySummary // keyed ownerID|dateKey

	mu sync.RWMutex
}

func NewInMemorySummaryRepository() *InMemorySummaryRepository {
	return &InMemorySummaryRepository{
		store: make(map[string]*domain.DailySummary),
	}
}

func (r *InMemorySummaryRepository) UpsertBatch(ctx context.Context, rows []*domain.DailySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		clone := *row
		r.store[row.OwnerID+"|"+row.DateKey] = &clone
	}
	return nil
}

func (r *InMemorySummaryRepository) ListByDates(ctx context.Context, ownerID string, dateKeys []string) ([]*domain.DailySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.DailySummary
	for _, key := range dateKeys {
		if s, ok := r.store[ownerID+"|"+key]; ok {
			clone := *s
			out = append(out, &clone)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DateKey > out[j].DateKey
	})
	return out, nil
}

func (r *InMemorySummaryRepository) Delete(ctx context.Context, ownerID, dateKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, ownerID+"|"+dateKey)
	return nil
}

// Get is a test convenience.
func (r *InMemorySummaryRepository) Get(ownerID, dateKey string) (*domain.DailySummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[ownerID+"|"+dateKey]
	if !ok {
		return nil, false
	}
	clone := *s
	return &clone, true
}

type InMemoryAccountRepository struct {
	store map[string]*domain.Account

	mu sync.RWMutex
}

func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		store: make(map[string]*domain.Account),
	}
}

func (r *InMemoryAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.store {
		if a.Email == account.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *account
	r.store[account.ID] = &clone
	return nil
}

func (r *InMemoryAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.store {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *InMemoryAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.store[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}
