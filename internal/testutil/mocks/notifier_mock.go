package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Aditya-k24/AlgoPulse/internal/notify"
)

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ScheduleAt(ctx context.Context, tag string, at time.Time, payload notify.Payload) (string, error) {
	args := m.Called(ctx, tag, at, payload)
	return args.String(0), args.Error(1)
}

func (m *MockNotifier) CancelByTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockNotifier) CancelAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotifier) ListScheduled(ctx context.Context) ([]notify.Scheduled, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notify.Scheduled), args.Error(1)
}
