package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/recalls", func(r chi.Router) {
			r.Post("/", s.handleScheduleRecall)
			r.Post("/complete", s.handleCompleteRecall)
			r.Post("/reschedule", s.handleRescheduleRecall)
			r.Post("/clear", s.handleClearRecalls)
			r.Get("/upcoming", s.handleUpcomingRecalls)
			r.Get("/stats", s.handleRecallStats)
		})

		r.Route("/problems", func(r chi.Router) {
			r.Get("/", s.handleListProblems)
			r.Post("/", s.handleCreateProblem)
			r.Get("/categories", s.handleListCategories)
			r.Get("/{id}", s.handleGetProblem)
			r.Post("/{id}/attempt", s.handleRecordAttempt)
		})

		r.Get("/notifications", s.handleListNotifications)
	})

	return r
}
