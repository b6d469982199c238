package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

func TestGoalEndpoints(t *testing.T) {
	t.Run("Unauthenticated requests are rejected", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodGet, "/api/v1/goals", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/goals", "Bearer not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Create applies defaults", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		rec := s.do(t, http.MethodPost, "/api/v1/goals", bearer, gin.H{"title": "Read"})
		require.Equal(t, http.StatusCreated, rec.Code)

		goal := decodeBody[domain.Goal](t, rec)
		assert.Equal(t, "Read", goal.Title)
		assert.Equal(t, domain.DefaultGoalIcon, goal.Icon)
		assert.Equal(t, domain.DefaultGoalTarget, goal.TargetPerDay)
		assert.Equal(t, "owner-1", goal.OwnerID)
	})

	t.Run("Create without a title", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		// Binding rejects a missing title before the service runs.
		rec := s.do(t, http.MethodPost, "/api/v1/goals", bearer, gin.H{"icon": "Book"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("List is scoped to the token's owner", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/v1/goals", s.bearerFor(t, "owner-1"), gin.H{"title": "Read"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/goals", s.bearerFor(t, "owner-2"), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeBody[[]domain.Goal](t, rec))

		rec = s.do(t, http.MethodGet, "/api/v1/goals", s.bearerFor(t, "owner-1"), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[[]domain.Goal](t, rec), 1)
	})

	t.Run("Update target", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		rec := s.do(t, http.MethodPost, "/api/v1/goals", bearer, gin.H{"title": "Read"})
		require.Equal(t, http.StatusCreated, rec.Code)
		goal := decodeBody[domain.Goal](t, rec)

		rec = s.do(t, http.MethodPut, "/api/v1/goals/"+goal.ID+"/target", bearer, gin.H{"target_per_day": 3})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodPut, "/api/v1/goals/missing/target", bearer, gin.H{"target_per_day": 3})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Update validation error surfaces the code", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		rec := s.do(t, http.MethodPost, "/api/v1/goals", bearer, gin.H{"title": "Read"})
		require.Equal(t, http.StatusCreated, rec.Code)
		goal := decodeBody[domain.Goal](t, rec)

		rec = s.do(t, http.MethodPut, "/api/v1/goals/"+goal.ID, bearer, gin.H{"target_per_day": -1})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "daily_target_invalid", body["error"])
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		rec := s.do(t, http.MethodPost, "/api/v1/goals", bearer, gin.H{"title": "Read"})
		require.Equal(t, http.StatusCreated, rec.Code)
		goal := decodeBody[domain.Goal](t, rec)

		rec = s.do(t, http.MethodDelete, "/api/v1/goals/"+goal.ID, bearer, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodDelete, "/api/v1/goals/"+goal.ID, bearer, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Stats for a missing goal", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(t, http.MethodGet, "/api/v1/goals/missing/stats", s.bearerFor(t, "owner-1"), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "goal_not_found", body["error"])
	})

	t.Run("Dashboard returns stats per goal", func(t *testing.T) {
		s := newTestServer(t)
		bearer := s.bearerFor(t, "owner-1")

		for _, title := range []string{"Read", "Run"} {
			rec := s.do(t, http.MethodPost, "/api/v1/goals", bearer, gin.H{"title": title})
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := s.do(t, http.MethodGet, "/api/v1/goals/dashboard", bearer, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		stats := decodeBody[[]domain.GoalWithStats](t, rec)
		require.Len(t, stats, 2)
		assert.Len(t, stats[0].Heatmap, 91)
	})
}
