package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

func TestCheckinAndTimelineFlow(t *testing.T) {
	todayKey := domain.ToDateKey(time.Now().UTC(), 0)
	yesterdayKey := domain.AddDaysToKey(todayKey, -1)

	createGoal := func(t *testing.T, s *testServer, bearer, title string) domain.Goal {
		t.Helper()
		rec := s.do(t, http.MethodPost, "/api/v1/goals", bearer, gin.H{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code)
		goal := decodeBody[domain.Goal](t, rec)
		s.backdateGoal(t, goal.OwnerID, goal.ID)
		return goal
	}

	t.Run("Checkin responds with the accumulated count", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")
		goal := createGoal(t, s, bearer, "Read")

		rec := s.do(t, http.MethodPost, "/api/v1/checkins", bearer, gin.H{"goal_id": goal.ID})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, decodeBody[domain.Completion](t, rec).Count)

		// Count defaults to one per request and accumulates.
		rec = s.do(t, http.MethodPost, "/api/v1/checkins", bearer, gin.H{"goal_id": goal.ID, "count": 2})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 3, decodeBody[domain.Completion](t, rec).Count)
	})

	t.Run("Checkin error mapping", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")
		goal := createGoal(t, s, bearer, "Read")

		rec := s.do(t, http.MethodPost, "/api/v1/checkins", bearer, gin.H{"goal_id": "missing"})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = s.do(t, http.MethodPost, "/api/v1/checkins", bearer, gin.H{"goal_id": goal.ID, "date": "02/11/2024"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_date", decodeBody[map[string]string](t, rec)["error"])
	})

	t.Run("Timeline reflects checkins and notes", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")
		goal := createGoal(t, s, bearer, "Read")

		rec := s.do(t, http.MethodPost, "/api/v1/checkins", bearer, gin.H{"goal_id": goal.ID, "date": yesterdayKey})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = s.do(t, http.MethodPost, "/api/v1/notes", bearer, gin.H{"content": "solid day", "date": yesterdayKey})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/timeline?days=7", bearer, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		timeline := decodeBody[domain.Timeline](t, rec)
		assert.Equal(t, 1, timeline.Streak)
		assert.Len(t, timeline.Heatmap, 7)
		require.Len(t, timeline.Days, 2)

		yesterday := timeline.Days[1]
		assert.Equal(t, yesterdayKey, yesterday.DateKey)
		assert.True(t, yesterday.AllGoalsCompleted)

		types := make(map[string]int)
		for _, e := range yesterday.Events {
			types[e.Type]++
		}
		assert.Equal(t, 1, types[domain.EventTypeCheckin])
		assert.Equal(t, 1, types[domain.EventTypeNote])
		assert.Equal(t, 1, types[domain.EventTypeSummary])
	})

	t.Run("Days parameter is validated", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		for _, q := range []string{"0", "367", "abc"} {
			rec := s.do(t, http.MethodGet, "/api/v1/timeline?days="+q, bearer, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "days=%s", q)
		}
	})

	t.Run("Event feed pages with a cursor", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		for i := 0; i < 5; i++ {
			rec := s.do(t, http.MethodPost, "/api/v1/notes", bearer, gin.H{"content": "note", "date": yesterdayKey})
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := s.do(t, http.MethodGet, "/api/v1/timeline/events?limit=3", bearer, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		page := decodeBody[domain.TimelinePage](t, rec)
		assert.Len(t, page.Events, 3)
		require.NotNil(t, page.NextCursor)

		rec = s.do(t, http.MethodGet, "/api/v1/timeline/events?limit=3&cursor="+*page.NextCursor, bearer, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		page = decodeBody[domain.TimelinePage](t, rec)
		assert.Len(t, page.Events, 2)
		assert.Nil(t, page.NextCursor)
	})

	t.Run("Malformed cursor restarts silently", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		rec := s.do(t, http.MethodPost, "/api/v1/notes", bearer, gin.H{"content": "note"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/timeline/events?cursor=garbage", bearer, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[domain.TimelinePage](t, rec).Events, 1)
	})

	t.Run("Timezone offset shifts today", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")
		createGoal(t, s, bearer, "Read")

		req := s.do(t, http.MethodGet, "/api/v1/timeline?days=2", bearer, nil)
		require.Equal(t, http.StatusOK, req.Code)
		base := decodeBody[domain.Timeline](t, req)
		require.NotEmpty(t, base.Days)

		// An 840-minute shift moves the local date for most of the UTC day.
		reqWest := s.doWithOffset(t, http.MethodGet, "/api/v1/timeline?days=2", bearer, "-840")
		require.Equal(t, http.StatusOK, reqWest.Code)
		west := decodeBody[domain.Timeline](t, reqWest)
		require.NotEmpty(t, west.Days)

		utcNow := time.Now().UTC()
		wantWest := domain.ToDateKey(utcNow, -840)
		assert.Equal(t, wantWest, west.Days[0].DateKey)
		assert.Equal(t, domain.ToDateKey(utcNow, 0), base.Days[0].DateKey)
	})
}
