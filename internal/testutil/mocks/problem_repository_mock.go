package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Aditya-k24/AlgoPulse/internal/models"
)

// MockProblemRepository is a mock implementation of repository.ProblemRepository
type MockProblemRepository struct {
	mock.Mock
}

func (m *MockProblemRepository) Get(ctx context.Context, id string) (*models.Problem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Problem), args.Error(1)
}

func (m *MockProblemRepository) BatchGet(ctx context.Context, ids []string) (map[string]models.ProblemSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.ProblemSummary), args.Error(1)
}

func (m *MockProblemRepository) List(ctx context.Context, filter models.ProblemFilter) ([]models.Problem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Problem), args.Error(1)
}

func (m *MockProblemRepository) Count(ctx context.Context, filter models.ProblemFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockProblemRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProblemRepository) Upsert(ctx context.Context, p models.Problem) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}
