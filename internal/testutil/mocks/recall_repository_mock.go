package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Aditya-k24/AlgoPulse/internal/models"
)

// MockRecallRepository is a mock implementation of repository.RecallRepository
type MockRecallRepository struct {
	mock.Mock
}

func (m *MockRecallRepository) UpsertMany(ctx context.Context, items []models.RecallItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockRecallRepository) MarkCompleted(ctx context.Context, problemID string, dueAt, completedAt time.Time) error {
	args := m.Called(ctx, problemID, dueAt, completedAt)
	return args.Error(0)
}

func (m *MockRecallRepository) ReadAll(ctx context.Context) (map[string]models.RecallItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.RecallItem), args.Error(1)
}

func (m *MockRecallRepository) DeleteForProblem(ctx context.Context, problemID string) error {
	args := m.Called(ctx, problemID)
	return args.Error(0)
}

func (m *MockRecallRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
