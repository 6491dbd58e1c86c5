package services

import (
	"context"
	"strings"

	"github.com/Aditya-k24/AlgoPulse/internal/errors"
	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/repository"
)

// ProblemService handles problem catalog business logic
type ProblemService interface {
	GetProblem(ctx context.Context, id string) (*models.Problem, error)
	ListProblems(ctx context.Context, filter models.ProblemFilter) ([]models.Problem, int, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateProblem(ctx context.Context, p models.Problem) (string, error)
}

type problemService struct {
	problems repository.ProblemRepository
}

// NewProblemService creates a new ProblemService
func NewProblemService(problems repository.ProblemRepository) ProblemService {
	return &problemService{problems: problems}
}

func (s *problemService) GetProblem(ctx context.Context, id string) (*models.Problem, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting problem: id=%s", id)

	p, err := s.problems.Get(ctx, id)
	if err != nil {
		log.Error("failed to get problem: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("problem", id)
	}
	return p, nil
}

func (s *problemService) ListProblems(ctx context.Context, filter models.ProblemFilter) ([]models.Problem, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing problems: category=%s, difficulty=%s", filter.Category, filter.Difficulty)

	problems, err := s.problems.List(ctx, filter)
	if err != nil {
		log.Error("failed to list problems: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	totalCount, err := s.problems.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count problems: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	return problems, totalCount, nil
}

func (s *problemService) ListCategories(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing categories")

	categories, err := s.problems.Categories(ctx)
	if err != nil {
		log.Error("failed to list categories: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return categories, nil
}

func (s *problemService) CreateProblem(ctx context.Context, p models.Problem) (string, error) {
	log := logger.FromContext(ctx)

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return "", errors.NewValidationError("title", "must not be empty")
	}
	log.Debug("creating problem: title=%s", p.Title)

	id, err := s.problems.Upsert(ctx, p)
	if err != nil {
		log.Error("failed to create problem: %v", err)
		return "", errors.NewInternalError(err)
	}
	return id, nil
}
