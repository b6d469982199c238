package services

import "github.com/strideapp/stride-engine/internal/core/domain"

// BuildHeatmap produces exactly `days` entries for the local days ending at
// todayKey, oldest first, counting activity across all goals. Dates without
// completions fill with zero.
func BuildHeatmap(index domain.CountIndex, days int, todayKey string) []domain.HeatmapEntry {
	keys := domain.DateKeyWindow(todayKey, days)
	entries := make([]domain.HeatmapEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, domain.HeatmapEntry{
			DateKey: key,
			Count:   index.TotalFor(key),
		})
	}
	return entries
}

// BuildGoalHeatmap is the single-goal variant used by the dashboard, where
// each count is read against that goal's own target.
func BuildGoalHeatmap(counts map[string]int, days int, todayKey string) []domain.HeatmapEntry {
	keys := domain.DateKeyWindow(todayKey, days)
	entries := make([]domain.HeatmapEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, domain.HeatmapEntry{
			DateKey: key,
			Count:   counts[key],
		})
	}
	return entries
}
