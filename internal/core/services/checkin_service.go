package services

import (
	"context"
	"fmt"
	"time"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

// SummaryRefresher receives dates whose cached summary row went stale.
// Satisfied by the background summary worker; nil-safe via NopRefresher.
type SummaryRefresher interface {
	Enqueue(ownerID, dateKey string, offsetMinutes int)
}

type NopRefresher struct{}

func (NopRefresher) Enqueue(string, string, int) {}

type CheckinService struct {
	goals       domain.GoalRepository
	completions domain.CompletionRepository
	events      domain.EventRepository
	refresher   SummaryRefresher
}

func NewCheckinService(goals domain.GoalRepository, completions domain.CompletionRepository, events domain.EventRepository, refresher SummaryRefresher) *CheckinService {
	if refresher == nil {
		refresher = NopRefresher{}
	}
	return &CheckinService{
		goals:       goals,
		completions: completions,
		events:      events,
		refresher:   refresher,
	}
}

type RecordCompletionInput struct {
	OwnerID       string
	GoalID        string
	Delta         int
	DateKey       string // empty means today in the caller's local frame
	OffsetMinutes int
}

// RecordCompletion adds a delta to the (goal, date) counter, rewrites the
// checkin event for that pair (delete then insert: the write-side dedup
// guarantee), and syncs the summary event for the date. The delete and
// insert are not wrapped in a transaction; a crash in between loses only a
// feed marker that the next aggregation read reconstructs.
func (s *CheckinService) RecordCompletion(ctx context.Context, input RecordCompletionInput) (*domain.Completion, error) {
	goal, err := s.goals.GetByID(ctx, input.OwnerID, input.GoalID)
	if err != nil {
		return nil, err
	}

	dateKey := input.DateKey
	if dateKey == "" {
		dateKey = domain.ToDateKey(time.Now().UTC(), input.OffsetMinutes)
	} else if _, err := domain.ParseDateKey(dateKey); err != nil {
		return nil, err
	}

	completion, err := s.completions.Increment(ctx, input.OwnerID, goal.ID, dateKey, input.Delta)
	if err != nil {
		return nil, fmt.Errorf("checkin service: increment failed: %w", err)
	}

	if err := s.events.DeleteCheckins(ctx, input.OwnerID, goal.ID, dateKey); err != nil {
		return nil, fmt.Errorf("checkin service: checkin dedup failed: %w", err)
	}
	event := domain.NewTimelineEvent(input.OwnerID, dateKey, domain.EventTypeCheckin, &goal.ID, domain.CheckinPayload{
		GoalID:   goal.ID,
		Delta:    input.Delta,
		NewCount: completion.Count,
		Target:   goal.TargetPerDay,
	})
	if err := s.events.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("checkin service: checkin event failed: %w", err)
	}

	if err := s.SyncSummaryEvent(ctx, input.OwnerID, dateKey, input.OffsetMinutes); err != nil {
		return nil, err
	}

	s.refresher.Enqueue(input.OwnerID, dateKey, input.OffsetMinutes)

	return completion, nil
}

// SyncSummaryEvent reconciles the persisted summary marker for a date with
// the current completion state: when every active goal meets target the
// stale marker is replaced (delete then insert keeps at most one per date),
// otherwise any existing marker is removed so a regression takes the day
// back out of the feed.
func (s *CheckinService) SyncSummaryEvent(ctx context.Context, ownerID, dateKey string, offsetMinutes int) error {
	goals, err := s.goals.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("checkin service: list goals failed: %w", err)
	}
	completions, err := s.completions.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("checkin service: list completions failed: %w", err)
	}
	index := domain.BuildCountIndex(completions)

	if err := s.events.DeleteSummary(ctx, ownerID, dateKey); err != nil {
		return fmt.Errorf("checkin service: summary cleanup failed: %w", err)
	}

	if !allActiveGoalsComplete(ownerID, dateKey, goals, index, offsetMinutes) {
		return nil
	}

	payload := domain.SummaryPayload{
		Items:             summaryItems(dateKey, goals, index, offsetMinutes),
		AllGoalsCompleted: true,
	}
	event := domain.NewTimelineEvent(ownerID, dateKey, domain.EventTypeSummary, nil, payload)
	if err := s.events.Append(ctx, event); err != nil {
		return fmt.Errorf("checkin service: summary event failed: %w", err)
	}
	return nil
}

func summaryItems(dateKey string, goals []*domain.Goal, index domain.CountIndex, offsetMinutes int) []domain.SummaryItem {
	items := make([]domain.SummaryItem, 0, len(goals))
	for _, g := range goals {
		if !g.ActiveOn(dateKey, offsetMinutes) {
			continue
		}
		items = append(items, domain.SummaryItem{
			GoalID: g.ID,
			Title:  g.Title,
			Count:  index.Count(dateKey, g.ID),
			Target: g.TargetPerDay,
			Icon:   g.Icon,
			Color:  g.Color,
		})
	}
	return items
}
