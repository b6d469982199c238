package services

import "github.com/strideapp/stride-engine/internal/core/domain"

// StreakFromSummaries walks backward from yesterday through cached daily
// summaries. A day extends the streak when it had at least one active goal
// and all of them met target; the walk stops at the first missing or
// non-qualifying day. Today is never cached, so it contributes separately:
// the caller passes its live-computed state and a qualifying today adds one.
func StreakFromSummaries(summaries map[string]*domain.DailySummary, todayKey string, todayComplete bool) int {
	streak := 0

	day := domain.AddDaysToKey(todayKey, -1)
	for {
		s, ok := summaries[day]
		if !ok || !s.AllCompleted() {
			break
		}
		streak++
		day = domain.AddDaysToKey(day, -1)
	}

	if todayComplete {
		streak++
	}

	return streak
}

// GoalStreak is the completion-based fallback for a single goal: walk
// backward from today through raw counts, a day qualifies when its count is
// positive. A zero count today does not break the streak, it just does not
// extend it yet.
func GoalStreak(counts map[string]int, todayKey string) int {
	day := todayKey
	if counts[day] <= 0 {
		day = domain.AddDaysToKey(day, -1)
	}

	streak := 0
	for counts[day] > 0 {
		streak++
		day = domain.AddDaysToKey(day, -1)
	}
	return streak
}

// allActiveGoalsComplete is the live predicate for a single date: true only
// when the date had at least one active goal and every one met its target.
func allActiveGoalsComplete(ownerID, dateKey string, goals []*domain.Goal, index domain.CountIndex, offsetMinutes int) bool {
	s := domain.ComputeDailySummary(ownerID, dateKey, goals, index, offsetMinutes)
	return s != nil && s.AllCompleted()
}
