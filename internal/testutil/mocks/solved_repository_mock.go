package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockSolvedRepository is a mock implementation of repository.SolvedRepository
type MockSolvedRepository struct {
	mock.Mock
}

func (m *MockSolvedRepository) SetSolvedAt(ctx context.Context, problemID string, solvedAt time.Time) error {
	args := m.Called(ctx, problemID, solvedAt)
	return args.Error(0)
}

func (m *MockSolvedRepository) SolvedAt(ctx context.Context, problemID string) (time.Time, bool, error) {
	args := m.Called(ctx, problemID)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

func (m *MockSolvedRepository) All(ctx context.Context) (map[string]time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]time.Time), args.Error(1)
}

func (m *MockSolvedRepository) IncrementAttempts(ctx context.Context, problemID string) (int, error) {
	args := m.Called(ctx, problemID)
	return args.Int(0), args.Error(1)
}

func (m *MockSolvedRepository) Attempts(ctx context.Context, problemID string) (int, error) {
	args := m.Called(ctx, problemID)
	return args.Int(0), args.Error(1)
}

func (m *MockSolvedRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
