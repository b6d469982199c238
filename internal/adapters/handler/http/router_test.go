package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/strideapp/stride-engine/internal/adapters/repository"
	"github.com/strideapp/stride-engine/internal/core/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer wires the full router over in-memory storage with real JWT auth,
// so handler tests exercise the same middleware chain as production.
type testServer struct {
	router *gin.Engine
	tokens *services.TokenService

	goals       *repository.InMemoryGoalRepository
	completions *repository.InMemoryCompletionRepository
	events      *repository.InMemoryEventRepository
	summaries   *repository.InMemorySummaryRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	completions := repository.NewInMemoryCompletionRepository()
	events := repository.NewInMemoryEventRepository()
	goals := repository.NewInMemoryGoalRepository().WithReferentialActions(completions, events)
	summaries := repository.NewInMemorySummaryRepository()
	notes := repository.NewInMemoryNoteRepository()
	accounts := repository.NewInMemoryAccountRepository()

	tokens := services.NewTokenService("test-secret", "stride-engine", time.Hour)
	authService := services.NewAuthService(accounts)
	goalService := services.NewGoalService(goals, completions, events)
	checkinService := services.NewCheckinService(goals, completions, events, nil)
	noteService := services.NewNoteService(notes, events)
	timelineService := services.NewTimelineService(goals, completions, events, summaries)

	router := NewRouter(RouterDependencies{
		AuthHandler:     NewAuthHandler(authService, tokens),
		GoalHandler:     NewGoalHandler(goalService),
		CheckinHandler:  NewCheckinHandler(checkinService),
		NoteHandler:     NewNoteHandler(noteService),
		TimelineHandler: NewTimelineHandler(timelineService),
		TokenService:    tokens,
		StartTime:       time.Now(),
	})

	return &testServer{
		router:      router,
		tokens:      tokens,
		goals:       goals,
		completions: completions,
		events:      events,
		summaries:   summaries,
	}
}

func (s *testServer) bearerFor(t *testing.T, ownerID string) string {
	t.Helper()

	token, err := s.tokens.GenerateToken(ownerID)
	require.NoError(t, err)
	return "Bearer " + token
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// doWithOffset is do plus the X-Timezone-Offset header.
func (s *testServer) doWithOffset(t *testing.T, method, path, bearer, offset string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	req.Header.Set("X-Timezone-Offset", offset)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// backdateGoal shifts a goal's creation time into the past, for tests that
// need history before today.
func (s *testServer) backdateGoal(t *testing.T, ownerID, id string) {
	t.Helper()

	g, err := s.goals.GetByID(context.Background(), ownerID, id)
	require.NoError(t, err)
	g.CreatedAt = time.Now().UTC().AddDate(-1, 0, 0)
	require.NoError(t, s.goals.Update(context.Background(), g))
}
