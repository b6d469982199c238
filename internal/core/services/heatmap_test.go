package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

func TestBuildHeatmap(t *testing.T) {
	index := domain.BuildCountIndex([]*domain.Completion{
		{GoalID: "g1", DateKey: "2024-02-11", Count: 2},
		{GoalID: "g2", DateKey: "2024-02-11", Count: 1},
		{GoalID: "g1", DateKey: "2024-02-09", Count: 1},
	})

	entries := BuildHeatmap(index, 4, "2024-02-11")
	require.Len(t, entries, 4)

	assert.Equal(t, "2024-02-08", entries[0].DateKey)
	assert.Equal(t, "2024-02-11", entries[3].DateKey)

	assert.Equal(t, 0, entries[0].Count)
	assert.Equal(t, 1, entries[1].Count)
	assert.Equal(t, 0, entries[2].Count)
	assert.Equal(t, 3, entries[3].Count)
}

func TestBuildHeatmapWindowLength(t *testing.T) {
	// The requested window size is the returned length, activity or not.
	for _, days := range []int{1, 7, 91, 105} {
		entries := BuildHeatmap(nil, days, "2024-02-11")
		assert.Len(t, entries, days, "days %d", days)
	}
}

func TestBuildGoalHeatmap(t *testing.T) {
	counts := map[string]int{"2024-02-11": 2, "2024-02-10": 1}

	entries := BuildGoalHeatmap(counts, 3, "2024-02-11")
	require.Len(t, entries, 3)

	assert.Equal(t, 0, entries[0].Count)
	assert.Equal(t, 1, entries[1].Count)
	assert.Equal(t, 2, entries[2].Count)
}
