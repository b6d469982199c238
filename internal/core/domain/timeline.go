package domain

import "time"

// FeedEvent is the client-facing shape of a timeline event: a discriminated
// union by Type, flattened into one struct with omitempty fields. Synthesized
// summary markers use the string id "summary-{date}"; persisted rows use
// their numeric row id.
type FeedEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	DateKey   string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`

	// note
	NoteID  string `json:"note_id,omitempty"`
	Content string `json:"content,omitempty"`

	// checkin / goal lifecycle
	GoalID string `json:"goal_id,omitempty"`
	Title  string `json:"title,omitempty"`
	Icon   string `json:"icon,omitempty"`
	Color  string `json:"color,omitempty"`
	Delta  int    `json:"delta,omitempty"`
	Count  int    `json:"count,omitempty"`
	Target int    `json:"target,omitempty"`

	// summary
	Items             []SummaryItem `json:"items,omitempty"`
	AllGoalsCompleted bool          `json:"all_goals_completed,omitempty"`
}

// TimelineItem is one goal's standing on one date.
type TimelineItem struct {
	GoalID string `json:"goal_id"`
	Title  string `json:"title"`
	Target int    `json:"target"`
	Count  int    `json:"count"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}

// TimelineDay buckets a single local date: the per-goal items, the persisted
// and synthesized events, and whether every active goal met target.
type TimelineDay struct {
	DateKey           string         `json:"date"`
	Items             []TimelineItem `json:"items"`
	AllGoalsCompleted bool           `json:"all_goals_completed"`
	Events            []FeedEvent    `json:"events"`
}

type HeatmapEntry struct {
	DateKey string `json:"date"`
	Count   int    `json:"count"`
}

// Timeline is the full dashboard read: day buckets newest first, plus the
// streak and heatmap computed over the same window.
type Timeline struct {
	Days    []TimelineDay  `json:"days"`
	Streak  int            `json:"streak"`
	Heatmap []HeatmapEntry `json:"heatmap"`
}

// TimelinePage is one page of the flat event feed.
type TimelinePage struct {
	Events     []FeedEvent `json:"events"`
	NextCursor *string     `json:"next_cursor"`
}

// GoalWithStats is the dashboard shape for a single goal.
type GoalWithStats struct {
	Goal               *Goal          `json:"goal"`
	Streak             int            `json:"streak"`
	TotalCompletedDays int            `json:"total_completed_days"`
	Heatmap            []HeatmapEntry `json:"heatmap"`
}
