package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Aditya-k24/AlgoPulse/internal/errors"
	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/recall"
)

type scheduleRecallRequest struct {
	ProblemID string `json:"problem_id"`
	SolvedAt  string `json:"solved_at,omitempty"`
	Plan      string `json:"plan,omitempty"`
}

func (s *Server) handleScheduleRecall(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req scheduleRecallRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	solvedAt := time.Now()
	if req.SolvedAt != "" {
		t, err := time.Parse(time.RFC3339, req.SolvedAt)
		if err != nil {
			s.handleError(w, r, errors.NewValidationError("solved_at", "must be RFC 3339"))
			return
		}
		solvedAt = t
	}

	plan := s.DefaultPlan
	if req.Plan != "" {
		p, err := recall.ParsePlan(req.Plan)
		if err != nil {
			// A plan name from a request body is client input, not
			// deployment configuration.
			s.handleError(w, r, errors.NewValidationError("plan", "unknown plan "+req.Plan))
			return
		}
		plan = p
	}

	log.Debug("schedule recall request: problem_id=%s, plan=%s", req.ProblemID, plan)

	items, err := s.RecallService.ScheduleProblemRecall(r.Context(), req.ProblemID, solvedAt, plan)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusCreated, map[string]any{
		"problem_id": req.ProblemID,
		"plan":       plan,
		"recalls":    items,
	})
}

type completeRecallRequest struct {
	ProblemID string `json:"problem_id"`
	DueAt     string `json:"due_at"`
}

func (s *Server) handleCompleteRecall(w http.ResponseWriter, r *http.Request) {
	var req completeRecallRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.ProblemID == "" {
		s.handleError(w, r, errors.NewValidationError("problem_id", "must not be empty"))
		return
	}
	dueAt, err := time.Parse(time.RFC3339, req.DueAt)
	if err != nil {
		s.handleError(w, r, errors.NewValidationError("due_at", "must be RFC 3339"))
		return
	}

	if err := s.RecallService.MarkRecallCompleted(r.Context(), req.ProblemID, dueAt); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"status": "completed"})
}

type rescheduleRecallRequest struct {
	ProblemID string `json:"problem_id"`
	Plan      string `json:"plan"`
}

func (s *Server) handleRescheduleRecall(w http.ResponseWriter, r *http.Request) {
	var req rescheduleRecallRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.ProblemID == "" {
		s.handleError(w, r, errors.NewValidationError("problem_id", "must not be empty"))
		return
	}
	plan, err := recall.ParsePlan(req.Plan)
	if err != nil {
		s.handleError(w, r, errors.NewValidationError("plan", "unknown plan "+req.Plan))
		return
	}

	items, err := s.RecallService.RescheduleProblemRecalls(r.Context(), req.ProblemID, plan)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"problem_id": req.ProblemID,
		"plan":       plan,
		"recalls":    items,
	})
}

func (s *Server) handleClearRecalls(w http.ResponseWriter, r *http.Request) {
	if err := s.RecallService.ClearAll(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpcomingRecalls(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	windowDays := 7
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			s.handleError(w, r, errors.NewValidationError("days", "must be a positive integer"))
			return
		}
		windowDays = n
	}

	log.Debug("upcoming recalls request: days=%d", windowDays)

	upcoming, err := s.RecallQueryService.Upcoming(r.Context(), time.Now(), windowDays)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if upcoming == nil {
		upcoming = []models.UpcomingRecall{}
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"window_days": windowDays,
		"count":       len(upcoming),
		"recalls":     upcoming,
	})
}

func (s *Server) handleRecallStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.RecallQueryService.Stats(r.Context(), time.Now())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "id")

	count, err := s.RecallService.RecordAttempt(r.Context(), problemID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"problem_id": problemID,
		"attempts":   count,
	})
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	scheduled, err := s.Notifier.ListScheduled(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"count":         len(scheduled),
		"notifications": scheduled,
	})
}
