package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
)

func (s *Server) handleListProblems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	q := r.URL.Query()
	filter := models.ProblemFilter{
		Category:   q.Get("category"),
		Difficulty: q.Get("difficulty"),
		Query:      q.Get("q"),
		Limit:      25,
	}

	if p := q.Get("per_page"); p != "" {
		switch p {
		case "10", "25", "50", "100":
			filter.Limit, _ = strconv.Atoi(p)
		}
	}
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	filter.Offset = (page - 1) * filter.Limit

	log.Debug("listing problems: category=%s, difficulty=%s, q=%s", filter.Category, filter.Difficulty, filter.Query)

	problems, totalCount, err := s.ProblemService.ListProblems(r.Context(), filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if problems == nil {
		problems = []models.Problem{}
	}

	totalPages := totalCount / filter.Limit
	if totalCount%filter.Limit != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"problems":    problems,
		"page":        page,
		"per_page":    filter.Limit,
		"total_pages": totalPages,
		"total_count": totalCount,
	})
}

func (s *Server) handleGetProblem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	problem, err := s.ProblemService.GetProblem(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, problem)
}

type createProblemRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleCreateProblem(w http.ResponseWriter, r *http.Request) {
	var req createProblemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	id, err := s.ProblemService.CreateProblem(r.Context(), models.Problem{
		Title:       req.Title,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Description: req.Description,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.ProblemService.ListCategories(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"categories": categories})
}
