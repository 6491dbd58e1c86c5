package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/services"
	"github.com/Aditya-k24/AlgoPulse/internal/testutil/mocks"
)

func newRecallQueryService() (services.RecallQueryService, *mocks.MockRecallRepository, *mocks.MockProblemRepository) {
	recalls := new(mocks.MockRecallRepository)
	problems := new(mocks.MockProblemRepository)
	return services.NewRecallQueryService(recalls, problems), recalls, problems
}

func snapshotOf(items ...models.RecallItem) map[string]models.RecallItem {
	out := make(map[string]models.RecallItem, len(items))
	for _, it := range items {
		out[it.Key().String()] = it
	}
	return out
}

func TestUpcoming_WindowFilter(t *testing.T) {
	svc, recalls, problems := newRecallQueryService()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	completedAt := now.Add(-time.Hour)
	recalls.On("ReadAll", mock.Anything).Return(snapshotOf(
		models.RecallItem{ProblemID: "past", DueAt: now.Add(-24 * time.Hour)},
		models.RecallItem{ProblemID: "in-window", DueAt: now.Add(2 * 24 * time.Hour)},
		models.RecallItem{ProblemID: "beyond", DueAt: now.Add(10 * 24 * time.Hour)},
		models.RecallItem{ProblemID: "done", DueAt: now.Add(24 * time.Hour), Completed: true, CompletedAt: &completedAt},
	), nil)
	problems.On("BatchGet", mock.Anything, mock.Anything).
		Return(map[string]models.ProblemSummary{}, nil)

	upcoming, err := svc.Upcoming(context.Background(), now, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1, "past, completed, and beyond-window items are excluded")
	assert.Equal(t, "in-window", upcoming[0].ProblemID)
}

func TestUpcoming_DueNowIsIncluded(t *testing.T) {
	svc, recalls, problems := newRecallQueryService()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	recalls.On("ReadAll", mock.Anything).Return(snapshotOf(
		models.RecallItem{ProblemID: "due-now", DueAt: now},
	), nil)
	problems.On("BatchGet", mock.Anything, mock.Anything).
		Return(map[string]models.ProblemSummary{}, nil)

	upcoming, err := svc.Upcoming(context.Background(), now, 7)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)
}

func TestUpcoming_Ordering(t *testing.T) {
	svc, recalls, problems := newRecallQueryService()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sameDue := now.Add(24 * time.Hour)
	recalls.On("ReadAll", mock.Anything).Return(snapshotOf(
		models.RecallItem{ProblemID: "bbb", DueAt: sameDue},
		models.RecallItem{ProblemID: "aaa", DueAt: sameDue},
		models.RecallItem{ProblemID: "ccc", DueAt: now.Add(2 * time.Hour)},
	), nil)
	problems.On("BatchGet", mock.Anything, mock.Anything).
		Return(map[string]models.ProblemSummary{}, nil)

	upcoming, err := svc.Upcoming(context.Background(), now, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	assert.Equal(t, "ccc", upcoming[0].ProblemID, "earliest due first")
	assert.Equal(t, "aaa", upcoming[1].ProblemID, "ties break on problem ID")
	assert.Equal(t, "bbb", upcoming[2].ProblemID)
}

func TestUpcoming_EnrichesWithProblemSummaries(t *testing.T) {
	svc, recalls, problems := newRecallQueryService()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	recalls.On("ReadAll", mock.Anything).Return(snapshotOf(
		models.RecallItem{ProblemID: "two-sum", DueAt: now.Add(24 * time.Hour)},
		models.RecallItem{ProblemID: "deleted-problem", DueAt: now.Add(48 * time.Hour)},
	), nil)
	problems.On("BatchGet", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 2
	})).Return(map[string]models.ProblemSummary{
		"two-sum": {Title: "Two Sum", Category: "arrays", Difficulty: "easy"},
	}, nil)

	upcoming, err := svc.Upcoming(context.Background(), now, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	assert.Equal(t, "Two Sum", upcoming[0].Problem.Title)
	assert.Equal(t, models.UnknownProblemTitle, upcoming[1].Problem.Title,
		"a recall whose problem vanished still renders with a placeholder")
}

func TestUpcoming_LookupFailureDegradesToPlaceholders(t *testing.T) {
	svc, recalls, problems := newRecallQueryService()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	recalls.On("ReadAll", mock.Anything).Return(snapshotOf(
		models.RecallItem{ProblemID: "two-sum", DueAt: now.Add(24 * time.Hour)},
	), nil)
	problems.On("BatchGet", mock.Anything, mock.Anything).
		Return(nil, stderrors.New("catalog unavailable"))

	upcoming, err := svc.Upcoming(context.Background(), now, 7)
	require.NoError(t, err, "a failed metadata lookup never fails the listing")
	require.Len(t, upcoming, 1)
	assert.Equal(t, models.UnknownProblemTitle, upcoming[0].Problem.Title)
}

func TestStats(t *testing.T) {
	svc, recalls, _ := newRecallQueryService()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	completedAt := now.Add(-time.Hour)
	recalls.On("ReadAll", mock.Anything).Return(snapshotOf(
		models.RecallItem{ProblemID: "p1", DueAt: now.Add(-48 * time.Hour), Completed: true, CompletedAt: &completedAt},
		models.RecallItem{ProblemID: "p1", DueAt: now.Add(24 * time.Hour)},
		models.RecallItem{ProblemID: "p1", DueAt: now.Add(3 * 24 * time.Hour)},
		models.RecallItem{ProblemID: "p2", DueAt: now.Add(6 * 24 * time.Hour)},
		models.RecallItem{ProblemID: "p2", DueAt: now.Add(20 * 24 * time.Hour)},
	), nil)

	stats, err := svc.Stats(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalScheduled)
	assert.Equal(t, 1, stats.TotalCompleted)
	assert.InDelta(t, 0.2, stats.CompletionRate, 1e-9)
	assert.Equal(t, 3, stats.UpcomingCount, "only pending items due within seven days count")
}

func TestStats_Empty(t *testing.T) {
	svc, recalls, _ := newRecallQueryService()

	recalls.On("ReadAll", mock.Anything).Return(map[string]models.RecallItem{}, nil)

	stats, err := svc.Stats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalScheduled)
	assert.Zero(t, stats.CompletionRate, "an empty store has a zero rate, not NaN")
}
