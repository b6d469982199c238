package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideapp/stride-engine/internal/adapters/repository"
	"github.com/strideapp/stride-engine/internal/core/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

type goalFixture struct {
	goals       *repository.InMemoryGoalRepository
	completions *repository.InMemoryCompletionRepository
	events      *repository.InMemoryEventRepository
	service     *GoalService
}

func newGoalFixture() *goalFixture {
	completions := repository.NewInMemoryCompletionRepository()
	events := repository.NewInMemoryEventRepository()
	goals := repository.NewInMemoryGoalRepository().WithReferentialActions(completions, events)

	return &goalFixture{
		goals:       goals,
		completions: completions,
		events:      events,
		service:     NewGoalService(goals, completions, events),
	}
}

func TestGoalServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults and lifecycle event", func(t *testing.T) {
		f := newGoalFixture()

		goal, err := f.service.Create(ctx, CreateGoalInput{OwnerID: "owner-1", Title: "Read"})
		require.NoError(t, err)

		assert.Equal(t, domain.DefaultGoalIcon, goal.Icon)
		assert.Equal(t, domain.DefaultGoalColor, goal.Color)
		assert.Equal(t, domain.DefaultGoalTarget, goal.TargetPerDay)

		dateKey := domain.ToDateKey(goal.CreatedAt, 0)
		events, err := f.events.ListByDates(ctx, "owner-1", []string{dateKey})
		require.NoError(t, err)
		require.Len(t, events, 1)

		e := events[0]
		assert.Equal(t, domain.EventTypeGoalCreated, e.Type)
		p := domain.ParseGoalLifecyclePayload(e.Payload, "")
		assert.Equal(t, goal.ID, p.GoalID)
		assert.Equal(t, "Read", p.Title)
	})

	t.Run("Blank title", func(t *testing.T) {
		f := newGoalFixture()
		_, err := f.service.Create(ctx, CreateGoalInput{OwnerID: "owner-1", Title: "  "})
		assert.ErrorIs(t, err, domain.ErrTitleRequired)
	})
}

func TestGoalServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial update persists", func(t *testing.T) {
		f := newGoalFixture()
		goal, err := f.service.Create(ctx, CreateGoalInput{OwnerID: "owner-1", Title: "Read", TargetPerDay: 2})
		require.NoError(t, err)

		updated, err := f.service.Update(ctx, UpdateGoalInput{
			OwnerID: "owner-1",
			ID:      goal.ID,
			Title:   strPtr("Read more"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Read more", updated.Title)
		assert.Equal(t, 2, updated.TargetPerDay)

		stored, err := f.goals.GetByID(ctx, "owner-1", goal.ID)
		require.NoError(t, err)
		assert.Equal(t, "Read more", stored.Title)
	})

	t.Run("Invalid target rejected", func(t *testing.T) {
		f := newGoalFixture()
		goal, err := f.service.Create(ctx, CreateGoalInput{OwnerID: "owner-1", Title: "Read"})
		require.NoError(t, err)

		_, err = f.service.Update(ctx, UpdateGoalInput{
			OwnerID:      "owner-1",
			ID:           goal.ID,
			TargetPerDay: intPtr(0),
		})
		assert.ErrorIs(t, err, domain.ErrDailyTargetInvalid)
	})

	t.Run("Unknown goal", func(t *testing.T) {
		f := newGoalFixture()
		_, err := f.service.Update(ctx, UpdateGoalInput{OwnerID: "owner-1", ID: "missing"})
		assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	})
}

func TestGoalServiceUpdateTarget(t *testing.T) {
	ctx := context.Background()
	f := newGoalFixture()

	goal, err := f.service.Create(ctx, CreateGoalInput{OwnerID: "owner-1", Title: "Read"})
	require.NoError(t, err)

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, f.service.UpdateTarget(ctx, "owner-1", goal.ID, 3))

		stored, err := f.goals.GetByID(ctx, "owner-1", goal.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stored.TargetPerDay)
	})

	t.Run("Below one rejected before hitting storage", func(t *testing.T) {
		assert.ErrorIs(t, f.service.UpdateTarget(ctx, "owner-1", goal.ID, 0), domain.ErrDailyTargetInvalid)
	})

	t.Run("No timeline event emitted", func(t *testing.T) {
		dateKey := domain.ToDateKey(time.Now().UTC(), 0)
		events, err := f.events.ListByDates(ctx, "owner-1", []string{dateKey})
		require.NoError(t, err)
		assert.Equal(t, 0, countByType(events, domain.EventTypeGoalDeleted))
		assert.Equal(t, 1, len(events), "only the creation event")
	})
}

func TestGoalServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Snapshot event outlives the row", func(t *testing.T) {
		f := newGoalFixture()
		goal, err := f.service.Create(ctx, CreateGoalInput{
			OwnerID: "owner-1", Title: "Read", Icon: "Book", Color: "#ff0000", TargetPerDay: 2,
		})
		require.NoError(t, err)

		require.NoError(t, f.service.Delete(ctx, "owner-1", goal.ID, 0))

		_, err = f.goals.GetByID(ctx, "owner-1", goal.ID)
		assert.ErrorIs(t, err, domain.ErrGoalNotFound)

		dateKey := domain.ToDateKey(time.Now().UTC(), 0)
		events, err := f.events.ListByDates(ctx, "owner-1", []string{dateKey})
		require.NoError(t, err)

		var deleted *domain.TimelineEvent
		for _, e := range events {
			if e.Type == domain.EventTypeGoalDeleted {
				deleted = e
			}
		}
		require.NotNil(t, deleted)

		// The goal row is gone and the FK is nulled; the payload snapshot is
		// all that remains of the metadata.
		assert.Nil(t, deleted.GoalID)
		p := domain.ParseGoalLifecyclePayload(deleted.Payload, "")
		assert.Equal(t, goal.ID, p.GoalID)
		assert.Equal(t, "Read", p.Title)
		assert.Equal(t, "Book", p.Icon)
		assert.Equal(t, 2, p.Target)
	})

	t.Run("Completions cascade with the goal", func(t *testing.T) {
		f := newGoalFixture()
		goal, err := f.service.Create(ctx, CreateGoalInput{OwnerID: "owner-1", Title: "Read"})
		require.NoError(t, err)

		_, err = f.completions.Increment(ctx, "owner-1", goal.ID, "2024-02-11", 1)
		require.NoError(t, err)

		require.NoError(t, f.service.Delete(ctx, "owner-1", goal.ID, 0))

		remaining, err := f.completions.ListByOwner(ctx, "owner-1")
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("Missing goal is a no-op", func(t *testing.T) {
		f := newGoalFixture()
		assert.NoError(t, f.service.Delete(ctx, "owner-1", "missing", 0))
	})
}

func TestGoalServiceGetWithStats(t *testing.T) {
	ctx := context.Background()
	f := newGoalFixture()

	goal, err := f.service.Create(ctx, CreateGoalInput{OwnerID: "owner-1", Title: "Read"})
	require.NoError(t, err)

	todayKey := domain.ToDateKey(time.Now().UTC(), 0)
	yesterdayKey := domain.AddDaysToKey(todayKey, -1)

	_, err = f.completions.Increment(ctx, "owner-1", goal.ID, todayKey, 1)
	require.NoError(t, err)
	_, err = f.completions.Increment(ctx, "owner-1", goal.ID, yesterdayKey, 2)
	require.NoError(t, err)

	stats, err := f.service.GetWithStats(ctx, "owner-1", goal.ID, 0, 91)
	require.NoError(t, err)

	assert.Equal(t, goal.ID, stats.Goal.ID)
	assert.Equal(t, 2, stats.Streak)
	assert.Equal(t, 2, stats.TotalCompletedDays)
	require.Len(t, stats.Heatmap, 91)
	assert.Equal(t, 1, stats.Heatmap[90].Count)
	assert.Equal(t, 2, stats.Heatmap[89].Count)

	t.Run("Unknown goal", func(t *testing.T) {
		_, err := f.service.GetWithStats(ctx, "owner-1", "missing", 0, 91)
		assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	})

	t.Run("Dashboard covers every goal", func(t *testing.T) {
		_, err := f.service.Create(ctx, CreateGoalInput{OwnerID: "owner-1", Title: "Run"})
		require.NoError(t, err)

		dashboard, err := f.service.Dashboard(ctx, "owner-1", 0, 91)
		require.NoError(t, err)
		assert.Len(t, dashboard, 2)
	})
}
