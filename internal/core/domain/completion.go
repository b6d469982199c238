package domain

import "time"

// Completion is the raw per-day counter for a goal: unique per (goal, date),
// accumulated by addition. Negative deltas are corrections, never overwrites.
type Completion struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	GoalID    string    `json:"goal_id" db:"goal_id"`
	DateKey   string    `json:"date" db:"date_key"`
	Count     int       `json:"count" db:"count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CountIndex maps dateKey -> goalID -> accumulated count.
type CountIndex map[string]map[string]int

func BuildCountIndex(completions []*Completion) CountIndex {
	index := make(CountIndex)
	for _, c := range completions {
		if _, ok := index[c.DateKey]; !ok {
			index[c.DateKey] = make(map[string]int)
		}
		index[c.DateKey][c.GoalID] += c.Count
	}
	return index
}

// Count returns the accumulated count for (dateKey, goalID), zero when absent.
func (idx CountIndex) Count(dateKey, goalID string) int {
	return idx[dateKey][goalID]
}

// TotalFor sums counts across all goals for a date.
func (idx CountIndex) TotalFor(dateKey string) int {
	total := 0
	for _, n := range idx[dateKey] {
		total += n
	}
	return total
}
