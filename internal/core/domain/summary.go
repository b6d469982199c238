package domain

import "time"

// DailySummary is a derived cache row, keyed (owner, date). It is rebuilt
// from goals and completions at any time; writers always overwrite, so a
// stale row costs one recompute, never a wrong answer. Only past dates are
// stored: today can still change and is computed live on every read.
type DailySummary struct {
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	DateKey        string    `json:"date" db:"date_key"`
	TotalGoals     int       `json:"total_goals" db:"total_goals"`
	CompletedGoals int       `json:"completed_goals" db:"completed_goals"`
	SuccessRate    float64   `json:"success_rate" db:"success_rate"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// AllCompleted reports whether every goal active that day met its target.
func (s *DailySummary) AllCompleted() bool {
	return s.TotalGoals > 0 && s.CompletedGoals >= s.TotalGoals
}

// ComputeDailySummary derives the summary for one date from a goal snapshot
// and the completion index. Returns nil when no goals were active on the
// date; such rows are never stored.
func ComputeDailySummary(ownerID, dateKey string, goals []*Goal, index CountIndex, offsetMinutes int) *DailySummary {
	total := 0
	completed := 0

	for _, g := range goals {
		if !g.ActiveOn(dateKey, offsetMinutes) {
			continue
		}
		total++
		if index.Count(dateKey, g.ID) >= g.TargetPerDay {
			completed++
		}
	}

	if total == 0 {
		return nil
	}

	return &DailySummary{
		OwnerID:        ownerID,
		DateKey:        dateKey,
		TotalGoals:     total,
		CompletedGoals: completed,
		SuccessRate:    float64(completed) / float64(total),
		UpdatedAt:      time.Now().UTC(),
	}
}
