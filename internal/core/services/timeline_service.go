package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

const (
	// DefaultTimelineDays is the aggregation window for the timeline view.
	DefaultTimelineDays = 105
	// DefaultDashboardDays is the per-goal heatmap window.
	DefaultDashboardDays = 91

	DefaultPageLimit = 50
	MaxPageLimit     = 200

	// streakBatchDays sizes the backward reads that continue the streak
	// walk through stored summary rows older than the aggregation window.
	streakBatchDays = 90
)

// TimelineService merges the three event sources (completions, notes, goal
// lifecycle) into day buckets, maintains the daily-summary cache as a side
// effect of reading, and computes streak and heatmap over the same window.
type TimelineService struct {
	goals       domain.GoalRepository
	completions domain.CompletionRepository
	events      domain.EventRepository
	summaries   domain.SummaryRepository
}

func NewTimelineService(goals domain.GoalRepository, completions domain.CompletionRepository, events domain.EventRepository, summaries domain.SummaryRepository) *TimelineService {
	return &TimelineService{
		goals:       goals,
		completions: completions,
		events:      events,
		summaries:   summaries,
	}
}

func (s *TimelineService) GetTimeline(ctx context.Context, ownerID string, days, offsetMinutes int) (*domain.Timeline, error) {
	if days <= 0 {
		days = DefaultTimelineDays
	}

	goals, err := s.goals.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("timeline: list goals failed: %w", err)
	}
	goalsByID := make(map[string]*domain.Goal, len(goals))
	for _, g := range goals {
		goalsByID[g.ID] = g
	}

	completions, err := s.completions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("timeline: list completions failed: %w", err)
	}
	index := domain.BuildCountIndex(completions)

	todayKey := domain.ToDateKey(time.Now().UTC(), offsetMinutes)
	window := domain.DateKeyWindow(todayKey, days)

	// Recompute every past date in the window and upsert unconditionally.
	// Overwrite semantics make this idempotent, so the read path doubles as
	// the cache backfill: retroactive edits are healed on the next fetch.
	summaries := make(map[string]*domain.DailySummary, len(window))
	var upserts []*domain.DailySummary
	for _, key := range window {
		if key == todayKey {
			continue
		}
		if sum := domain.ComputeDailySummary(ownerID, key, goals, index, offsetMinutes); sum != nil {
			summaries[key] = sum
			upserts = append(upserts, sum)
		}
	}
	if len(upserts) > 0 {
		if err := s.summaries.UpsertBatch(ctx, upserts); err != nil {
			return nil, fmt.Errorf("timeline: summary upsert failed: %w", err)
		}
	}

	rows, err := s.events.ListByDates(ctx, ownerID, window)
	if err != nil {
		return nil, fmt.Errorf("timeline: list events failed: %w", err)
	}

	// Transform rows newest-first. Duplicate checkin rows for the same
	// (date, goal) can exist transiently; the first one encountered is the
	// most recent and wins.
	eventsByDate := make(map[string][]domain.FeedEvent)
	nonSummaryCount := make(map[string]int)
	summarySeen := make(map[string]bool)
	seenCheckin := make(map[string]bool)

	for _, row := range rows {
		fe, ok := s.transformEvent(row, goalsByID, index)
		if !ok {
			continue
		}
		switch fe.Type {
		case domain.EventTypeCheckin:
			dedupKey := row.DateKey + "|" + fe.GoalID
			if seenCheckin[dedupKey] {
				continue
			}
			seenCheckin[dedupKey] = true
			nonSummaryCount[row.DateKey]++
		case domain.EventTypeSummary:
			summarySeen[row.DateKey] = true
		default:
			nonSummaryCount[row.DateKey]++
		}
		eventsByDate[row.DateKey] = append(eventsByDate[row.DateKey], fe)
	}

	todayComplete := allActiveGoalsComplete(ownerID, todayKey, goals, index, offsetMinutes)

	streak := StreakFromSummaries(summaries, todayKey, todayComplete)

	// The in-memory walk only sees the requested window. When every past day
	// in it qualified, the streak may run further back through summary rows
	// persisted by earlier, wider reads; keep walking through the store.
	pastStreak := streak
	if todayComplete {
		pastStreak--
	}
	if pastStreak == len(window)-1 {
		extra, err := s.streakBeforeWindow(ctx, ownerID, window[0])
		if err != nil {
			return nil, err
		}
		streak += extra
	}

	// Buckets come back newest first.
	result := &domain.Timeline{
		Days:    make([]domain.TimelineDay, 0, len(window)),
		Streak:  streak,
		Heatmap: BuildHeatmap(index, days, todayKey),
	}

	for i := len(window) - 1; i >= 0; i-- {
		key := window[i]
		isToday := key == todayKey

		// Today is a working view and shows pending goals at zero; past days
		// are historical record and only carry goals with activity.
		var items []domain.TimelineItem
		for _, g := range goals {
			if !g.ActiveOn(key, offsetMinutes) {
				continue
			}
			count := index.Count(key, g.ID)
			if !isToday && count <= 0 {
				continue
			}
			items = append(items, domain.TimelineItem{
				GoalID: g.ID,
				Title:  g.Title,
				Target: g.TargetPerDay,
				Count:  count,
				Icon:   g.Icon,
				Color:  g.Color,
			})
		}

		allCompleted := false
		if sum, ok := summaries[key]; ok {
			allCompleted = sum.AllCompleted()
		} else if isToday {
			allCompleted = todayComplete
		}

		dayEvents := eventsByDate[key]

		// Qualifying historical days always show a summary marker, even when
		// the real-time synthesis missed them (backfilled data).
		if !isToday && allCompleted && !summarySeen[key] {
			synthesized := domain.FeedEvent{
				ID:      "summary-" + key,
				Type:    domain.EventTypeSummary,
				DateKey: key,
				Items:   summaryItems(key, goals, index, offsetMinutes),
				AllGoalsCompleted: true,
			}
			if t, err := domain.ParseDateKey(key); err == nil {
				synthesized.CreatedAt = t
			}
			dayEvents = append([]domain.FeedEvent{synthesized}, dayEvents...)
		}

		// Empty historical days stay out of the feed; today always shows.
		if !isToday && len(items) == 0 && nonSummaryCount[key] == 0 {
			continue
		}

		result.Days = append(result.Days, domain.TimelineDay{
			DateKey:           key,
			Items:             items,
			AllGoalsCompleted: allCompleted,
			Events:            dayEvents,
		})
	}

	return result, nil
}

// streakBeforeWindow continues the backward streak walk through stored
// summary rows, starting the day before oldestKey and reading one batch of
// dates at a time. The walk ends at the first missing or incomplete day.
func (s *TimelineService) streakBeforeWindow(ctx context.Context, ownerID, oldestKey string) (int, error) {
	extra := 0
	day := domain.AddDaysToKey(oldestKey, -1)

	for {
		batch := domain.DateKeyWindow(day, streakBatchDays)
		rows, err := s.summaries.ListByDates(ctx, ownerID, batch)
		if err != nil {
			return 0, fmt.Errorf("timeline: list summaries failed: %w", err)
		}
		byDate := make(map[string]*domain.DailySummary, len(rows))
		for _, row := range rows {
			byDate[row.DateKey] = row
		}

		for range batch {
			sum, ok := byDate[day]
			if !ok || !sum.AllCompleted() {
				return extra, nil
			}
			extra++
			day = domain.AddDaysToKey(day, -1)
		}
	}
}

// GetTimelinePage returns a flat, strictly ordered slice of the event feed.
// The cursor is an opaque encoding of the last row's sort tuple; a malformed
// cursor silently restarts from the top. A limit+1 fetch detects "has more".
func (s *TimelineService) GetTimelinePage(ctx context.Context, ownerID, cursorToken string, limit int) (*domain.TimelinePage, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	cursor := domain.DecodeEventCursor(cursorToken)

	goals, err := s.goals.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("timeline: list goals failed: %w", err)
	}
	goalsByID := make(map[string]*domain.Goal, len(goals))
	for _, g := range goals {
		goalsByID[g.ID] = g
	}

	completions, err := s.completions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("timeline: list completions failed: %w", err)
	}
	index := domain.BuildCountIndex(completions)

	rows, err := s.events.ListPage(ctx, ownerID, cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("timeline: list page failed: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	page := &domain.TimelinePage{Events: make([]domain.FeedEvent, 0, len(rows))}
	for _, row := range rows {
		if fe, ok := s.transformEvent(row, goalsByID, index); ok {
			page.Events = append(page.Events, fe)
		}
	}

	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		token := domain.EventCursor{
			DateKey:   last.DateKey,
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}.Encode()
		page.NextCursor = &token
	}

	return page, nil
}

// transformEvent turns a stored row into its client-facing shape. Numeric and
// string payload fields all degrade to typed fallbacks so legacy or corrupted
// rows render best-effort instead of failing the feed. Unknown types drop.
func (s *TimelineService) transformEvent(row *domain.TimelineEvent, goalsByID map[string]*domain.Goal, index domain.CountIndex) (domain.FeedEvent, bool) {
	fe := domain.FeedEvent{
		ID:        strconv.FormatInt(row.ID, 10),
		Type:      row.Type,
		DateKey:   row.DateKey,
		CreatedAt: row.CreatedAt,
	}

	switch row.Type {
	case domain.EventTypeNote:
		p := domain.ParseNotePayload(row.Payload)
		fe.NoteID = p.NoteID
		fe.Content = p.Content

	case domain.EventTypeCheckin:
		goalID := domain.CheckinGoalID(row.Payload, row.GoalID)
		fallbackTarget := domain.DefaultGoalTarget
		if g, ok := goalsByID[goalID]; ok {
			fallbackTarget = g.TargetPerDay
		}
		p := domain.ParseCheckinPayload(row.Payload, goalID, index.Count(row.DateKey, goalID), fallbackTarget)
		fe.GoalID = p.GoalID
		fe.Delta = p.Delta
		fe.Count = p.NewCount
		fe.Target = p.Target
		if g, ok := goalsByID[p.GoalID]; ok {
			fe.Title = g.Title
			fe.Icon = g.Icon
			fe.Color = g.Color
		}

	case domain.EventTypeGoalCreated, domain.EventTypeGoalDeleted:
		fallbackGoalID := ""
		if row.GoalID != nil {
			fallbackGoalID = *row.GoalID
		}
		p := domain.ParseGoalLifecyclePayload(row.Payload, fallbackGoalID)
		fe.GoalID = p.GoalID
		fe.Title = p.Title
		fe.Icon = p.Icon
		fe.Color = p.Color
		fe.Target = p.Target
		// The live row wins while the goal still exists; deleted goals fall
		// back to the payload snapshot taken before removal.
		if g, ok := goalsByID[p.GoalID]; ok {
			fe.Title = g.Title
			fe.Icon = g.Icon
			fe.Color = g.Color
			fe.Target = g.TargetPerDay
		}

	case domain.EventTypeSummary:
		p := domain.ParseSummaryPayload(row.Payload)
		fe.Items = p.Items
		fe.AllGoalsCompleted = p.AllGoalsCompleted

	default:
		return domain.FeedEvent{}, false
	}

	return fe, true
}
