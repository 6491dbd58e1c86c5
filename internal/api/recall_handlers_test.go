package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Aditya-k24/AlgoPulse/internal/api"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/notify"
	"github.com/Aditya-k24/AlgoPulse/internal/repository/kv"
	"github.com/Aditya-k24/AlgoPulse/internal/services"
	"github.com/Aditya-k24/AlgoPulse/internal/storage"
	"github.com/Aditya-k24/AlgoPulse/internal/testutil/mocks"
)

// newTestServer wires a Server with real recall repositories on memory
// storage and mocked problem catalog and notifier.
func newTestServer(t *testing.T) (*api.Server, *mocks.MockProblemRepository, *mocks.MockNotifier) {
	t.Helper()

	store := storage.NewMemoryStorage()
	recallRepo := kv.NewRecallRepository(store)
	solvedRepo := kv.NewSolvedRepository(store)
	problemRepo := new(mocks.MockProblemRepository)
	notifier := new(mocks.MockNotifier)

	srv := &api.Server{
		RecallService:      services.NewRecallService(recallRepo, solvedRepo, problemRepo, notifier),
		RecallQueryService: services.NewRecallQueryService(recallRepo, problemRepo),
		ProblemService:     services.NewProblemService(problemRepo),
		Notifier:           notifier,
		DefaultPlan:        models.PlanBaseline,
	}
	return srv, problemRepo, notifier
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func stubReminders(problemRepo *mocks.MockProblemRepository, notifier *mocks.MockNotifier) {
	problemRepo.On("BatchGet", mock.Anything, mock.Anything).
		Return(map[string]models.ProblemSummary{}, nil)
	notifier.On("ScheduleAt", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("handle", nil)
	notifier.On("CancelByTag", mock.Anything, mock.Anything).Return(nil)
	notifier.On("CancelAll", mock.Anything).Return(nil)
}

func TestHandleScheduleRecall(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
		"solved_at":  "2026-03-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ProblemID string              `json:"problem_id"`
		Plan      string              `json:"plan"`
		Recalls   []models.RecallItem `json:"recalls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "two-sum", resp.ProblemID)
	assert.Equal(t, "baseline", resp.Plan, "the configured default plan applies")
	assert.Len(t, resp.Recalls, 5)
}

func TestHandleScheduleRecall_ExplicitPlan(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
		"plan":       "time_crunch",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Recalls []models.RecallItem `json:"recalls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Recalls, 4)
}

func TestHandleScheduleRecall_BadInput(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	// Missing problem_id
	rec := doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown plan
	rec = doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
		"plan":       "cramming",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Bad timestamp
	rec = doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
		"solved_at":  "yesterday",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown field
	rec = doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
		"planz":      "baseline",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompleteRecall(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
		"solved_at":  "2026-03-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Recalls []models.RecallItem `json:"recalls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = doJSON(t, routes, http.MethodPost, "/api/recalls/complete", map[string]any{
		"problem_id": "two-sum",
		"due_at":     resp.Recalls[0].DueAt.Format(time.RFC3339Nano),
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandleCompleteRecall_Missing(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/recalls/complete", map[string]any{
		"problem_id": "ghost",
		"due_at":     "2026-03-02T10:00:00Z",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestHandleRescheduleRecall(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
		"solved_at":  "2026-03-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, routes, http.MethodPost, "/api/recalls/reschedule", map[string]any{
		"problem_id": "two-sum",
		"plan":       "time_crunch",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Recalls []models.RecallItem `json:"recalls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Recalls, 4, "the new plan replaces the old schedule")
	notifier.AssertCalled(t, "CancelByTag", mock.Anything, "recall:two-sum")
}

func TestHandleRescheduleRecall_NeverSolved(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/recalls/reschedule", map[string]any{
		"problem_id": "ghost",
		"plan":       "baseline",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpcomingAndStats(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
		"solved_at":  time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, routes, http.MethodGet, "/api/recalls/upcoming?days=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var upcoming struct {
		WindowDays int                     `json:"window_days"`
		Count      int                     `json:"count"`
		Recalls    []models.UpcomingRecall `json:"recalls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upcoming))
	assert.Equal(t, 20, upcoming.WindowDays)
	assert.Equal(t, 4, upcoming.Count, "the 30-day recall falls outside a 20-day window")

	rec = doJSON(t, routes, http.MethodGet, "/api/recalls/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.RecallStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 5, stats.TotalScheduled)
	assert.Equal(t, 0, stats.TotalCompleted)
}

func TestHandleUpcoming_BadDays(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodGet, "/api/recalls/upcoming?days=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleClearRecalls(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/recalls", map[string]any{
		"problem_id": "two-sum",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, routes, http.MethodPost, "/api/recalls/clear", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, routes, http.MethodGet, "/api/recalls/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.RecallStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalScheduled)
}

func TestHandleRecordAttempt(t *testing.T) {
	srv, problemRepo, notifier := newTestServer(t)
	stubReminders(problemRepo, notifier)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/problems/two-sum/attempt", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Attempts int `json:"attempts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Attempts)
}

func TestHandleListNotifications(t *testing.T) {
	srv, _, notifier := newTestServer(t)
	routes := srv.Routes()

	notifier.On("ListScheduled", mock.Anything).Return([]notify.Scheduled{
		{Handle: "h1", Tag: "recall:two-sum:0", At: time.Now().Add(time.Hour)},
	}, nil)

	rec := doJSON(t, routes, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestHandleHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
