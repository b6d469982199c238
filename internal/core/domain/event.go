package domain

import (
	"encoding/json"
	"time"
)

const (
	EventTypeNote        = "note"
	EventTypeCheckin     = "checkin"
	EventTypeGoalCreated = "goal_created"
	EventTypeGoalDeleted = "goal_deleted"
	EventTypeSummary     = "summary"
)

// TimelineEvent is an append-only log row. GoalID is nulled when the goal is
// hard-deleted; the payload keeps a snapshot of the metadata so history
// survives the deletion.
type TimelineEvent struct {
	ID        int64           `json:"id" db:"id"`
	OwnerID   string          `json:"owner_id" db:"owner_id"`
	DateKey   string          `json:"date" db:"date_key"`
	Type      string          `json:"type" db:"type"`
	GoalID    *string         `json:"goal_id,omitempty" db:"goal_id"`
	Payload   json.RawMessage `json:"payload,omitempty" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

func NewTimelineEvent(ownerID, dateKey, eventType string, goalID *string, payload any) *TimelineEvent {
	raw, err := json.Marshal(payload)
	if err != nil || payload == nil {
		raw = nil
	}
	return &TimelineEvent{
		OwnerID:   ownerID,
		DateKey:   dateKey,
		Type:      eventType,
		GoalID:    goalID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
}

// Stored payloads are untyped at the boundary: legacy rows and partially
// written writes must degrade to best-effort display, never break a read.
// Every field extraction below therefore carries a typed fallback.

type CheckinPayload struct {
	GoalID   string `json:"goal_id"`
	Delta    int    `json:"delta"`
	NewCount int    `json:"new_count"`
	Target   int    `json:"target"`
}

type NotePayload struct {
	NoteID  string `json:"note_id"`
	Content string `json:"content"`
}

type GoalLifecyclePayload struct {
	GoalID string `json:"goal_id"`
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
	Target int    `json:"target"`
}

type SummaryPayload struct {
	Items             []SummaryItem `json:"items"`
	AllGoalsCompleted bool          `json:"all_goals_completed"`
}

type SummaryItem struct {
	GoalID string `json:"goal_id"`
	Title  string `json:"title"`
	Count  int    `json:"count"`
	Target int    `json:"target"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}

func decodePayload(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func payloadString(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return fallback
}

func payloadInt(m map[string]any, key string, fallback int) int {
	// encoding/json decodes every number into float64.
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func payloadBool(m map[string]any, key string, fallback bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return fallback
}

// CheckinGoalID resolves the goal a checkin row belongs to: the payload's
// goal_id wins, the row column is the fallback (older rows stored only the
// column, rows for deleted goals only the payload).
func CheckinGoalID(raw json.RawMessage, rowGoalID *string) string {
	fallback := ""
	if rowGoalID != nil {
		fallback = *rowGoalID
	}
	return payloadString(decodePayload(raw), "goal_id", fallback)
}

// ParseCheckinPayload extracts a checkin payload with fallbacks: a missing or
// invalid delta reads as 0, new_count and target fall back to the supplied
// values (the caller resolves them from the completion index and the live
// goal row respectively).
func ParseCheckinPayload(raw json.RawMessage, fallbackGoalID string, fallbackCount, fallbackTarget int) CheckinPayload {
	m := decodePayload(raw)
	return CheckinPayload{
		GoalID:   payloadString(m, "goal_id", fallbackGoalID),
		Delta:    payloadInt(m, "delta", 0),
		NewCount: payloadInt(m, "new_count", fallbackCount),
		Target:   payloadInt(m, "target", fallbackTarget),
	}
}

func ParseNotePayload(raw json.RawMessage) NotePayload {
	m := decodePayload(raw)
	return NotePayload{
		NoteID:  payloadString(m, "note_id", ""),
		Content: payloadString(m, "content", ""),
	}
}

func ParseGoalLifecyclePayload(raw json.RawMessage, fallbackGoalID string) GoalLifecyclePayload {
	m := decodePayload(raw)
	return GoalLifecyclePayload{
		GoalID: payloadString(m, "goal_id", fallbackGoalID),
		Title:  payloadString(m, "title", ""),
		Icon:   payloadString(m, "icon", DefaultGoalIcon),
		Color:  payloadString(m, "color", DefaultGoalColor),
		Target: payloadInt(m, "target", DefaultGoalTarget),
	}
}

func ParseSummaryPayload(raw json.RawMessage) SummaryPayload {
	var p SummaryPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			p = SummaryPayload{}
		}
	}
	m := decodePayload(raw)
	p.AllGoalsCompleted = payloadBool(m, "all_goals_completed", p.AllGoalsCompleted)
	return p
}
