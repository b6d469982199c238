package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

type GoalService struct {
	goals       domain.GoalRepository
	completions domain.CompletionRepository
	events      domain.EventRepository
}

func NewGoalService(goals domain.GoalRepository, completions domain.CompletionRepository, events domain.EventRepository) *GoalService {
	return &GoalService{
		goals:       goals,
		completions: completions,
		events:      events,
	}
}

type CreateGoalInput struct {
	OwnerID       string
	Title         string
	Description   string
	Icon          string
	Color         string
	TargetPerDay  int
	OffsetMinutes int
}

type UpdateGoalInput struct {
	OwnerID      string
	ID           string
	Title        *string
	Description  *string
	Icon         *string
	Color        *string
	TargetPerDay *int
}

func lifecyclePayload(g *domain.Goal) domain.GoalLifecyclePayload {
	return domain.GoalLifecyclePayload{
		GoalID: g.ID,
		Title:  g.Title,
		Icon:   g.Icon,
		Color:  g.Color,
		Target: g.TargetPerDay,
	}
}

func (s *GoalService) Create(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	goal, err := domain.NewGoal(input.OwnerID, input.Title, input.Description, input.Icon, input.Color, input.TargetPerDay)
	if err != nil {
		return nil, err
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("goal service: create failed: %w", err)
	}

	dateKey := domain.ToDateKey(goal.CreatedAt, input.OffsetMinutes)
	event := domain.NewTimelineEvent(input.OwnerID, dateKey, domain.EventTypeGoalCreated, &goal.ID, lifecyclePayload(goal))
	if err := s.events.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("goal service: created event failed: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Update(ctx context.Context, input UpdateGoalInput) (*domain.Goal, error) {
	goal, err := s.goals.GetByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	patch := domain.GoalPatch{
		Title:        input.Title,
		Description:  input.Description,
		Icon:         input.Icon,
		Color:        input.Color,
		TargetPerDay: input.TargetPerDay,
	}
	if err := goal.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("goal service: update failed: %w", err)
	}

	return goal, nil
}

// UpdateTarget is the target-only fast path; no timeline event is emitted.
func (s *GoalService) UpdateTarget(ctx context.Context, ownerID, id string, target int) error {
	if target < 1 {
		return domain.ErrDailyTargetInvalid
	}
	return s.goals.UpdateTarget(ctx, ownerID, id, target)
}

// Delete emits the goal_deleted event before removing the row, so the event
// payload snapshots metadata that the hard delete destroys. Deleting a goal
// that no longer exists is a no-op, not an error.
func (s *GoalService) Delete(ctx context.Context, ownerID, id string, offsetMinutes int) error {
	goal, err := s.goals.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return nil
		}
		return err
	}

	dateKey := domain.ToDateKey(time.Now().UTC(), offsetMinutes)
	event := domain.NewTimelineEvent(ownerID, dateKey, domain.EventTypeGoalDeleted, &goal.ID, lifecyclePayload(goal))
	if err := s.events.Append(ctx, event); err != nil {
		return fmt.Errorf("goal service: deleted event failed: %w", err)
	}

	return s.goals.Delete(ctx, ownerID, id)
}

func (s *GoalService) List(ctx context.Context, ownerID string) ([]*domain.Goal, error) {
	return s.goals.ListByOwner(ctx, ownerID)
}

// GetWithStats resolves one goal's dashboard view: current streak, total
// completed days and a fixed-length heatmap over the requested window.
func (s *GoalService) GetWithStats(ctx context.Context, ownerID, id string, offsetMinutes, heatmapDays int) (*domain.GoalWithStats, error) {
	goal, err := s.goals.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	completions, err := s.completions.ListByGoal(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("goal service: list completions failed: %w", err)
	}

	// One completion row per (goal, date) by construction; a day counts as
	// completed when anything was logged and survived corrections.
	counts := make(map[string]int, len(completions))
	completedDays := 0
	for _, c := range completions {
		counts[c.DateKey] += c.Count
	}
	for _, n := range counts {
		if n > 0 {
			completedDays++
		}
	}

	todayKey := domain.ToDateKey(time.Now().UTC(), offsetMinutes)

	return &domain.GoalWithStats{
		Goal:               goal,
		Streak:             GoalStreak(counts, todayKey),
		TotalCompletedDays: completedDays,
		Heatmap:            BuildGoalHeatmap(counts, heatmapDays, todayKey),
	}, nil
}

// Dashboard returns the stats view for every goal of the owner.
func (s *GoalService) Dashboard(ctx context.Context, ownerID string, offsetMinutes, heatmapDays int) ([]*domain.GoalWithStats, error) {
	goals, err := s.goals.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.GoalWithStats, 0, len(goals))
	for _, g := range goals {
		stats, err := s.GetWithStats(ctx, ownerID, g.ID, offsetMinutes, heatmapDays)
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}
