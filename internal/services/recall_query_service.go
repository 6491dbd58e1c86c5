package services

import (
	"context"
	"sort"
	"time"

	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/repository"
)

// statsWindowDays is the lookahead used for the stats upcoming count.
const statsWindowDays = 7

// RecallQueryService is the read side of the recall store: due/upcoming
// listings joined with problem metadata, and dashboard aggregates.
type RecallQueryService interface {
	Upcoming(ctx context.Context, now time.Time, windowDays int) ([]models.UpcomingRecall, error)
	Stats(ctx context.Context, now time.Time) (*models.RecallStats, error)
}

type recallQueryService struct {
	recalls  repository.RecallRepository
	problems repository.ProblemRepository
}

// NewRecallQueryService creates a new RecallQueryService
func NewRecallQueryService(recalls repository.RecallRepository, problems repository.ProblemRepository) RecallQueryService {
	return &recallQueryService{recalls: recalls, problems: problems}
}

func (s *recallQueryService) Upcoming(ctx context.Context, now time.Time, windowDays int) ([]models.UpcomingRecall, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing upcoming recalls: window_days=%d", windowDays)

	snap, err := s.recalls.ReadAll(ctx)
	if err != nil {
		log.Error("failed to read recall store: %v", err)
		return nil, err
	}

	horizon := now.Add(time.Duration(windowDays) * 24 * time.Hour)
	var due []models.RecallItem
	for _, it := range snap {
		if it.Completed {
			continue
		}
		if it.DueAt.Before(now) || it.DueAt.After(horizon) {
			continue
		}
		due = append(due, it)
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].ProblemID < due[j].ProblemID
	})

	summaries := s.lookupSummaries(ctx, due)

	out := make([]models.UpcomingRecall, len(due))
	for i, it := range due {
		summary, ok := summaries[it.ProblemID]
		if !ok {
			summary = models.PlaceholderSummary()
		}
		out[i] = models.UpcomingRecall{RecallItem: it, Problem: summary}
	}
	log.Debug("found %d upcoming recalls", len(out))
	return out, nil
}

// lookupSummaries joins problem metadata in a single batched round
// trip. A failed lookup degrades every row to the placeholder summary
// rather than failing the query.
func (s *recallQueryService) lookupSummaries(ctx context.Context, items []models.RecallItem) map[string]models.ProblemSummary {
	log := logger.FromContext(ctx)

	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	var ids []string
	for _, it := range items {
		if !seen[it.ProblemID] {
			seen[it.ProblemID] = true
			ids = append(ids, it.ProblemID)
		}
	}

	lctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	summaries, err := s.problems.BatchGet(lctx, ids)
	if err != nil {
		log.Warn("problem lookup failed, using placeholders: %v", err)
		return nil
	}
	return summaries
}

func (s *recallQueryService) Stats(ctx context.Context, now time.Time) (*models.RecallStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing recall stats")

	snap, err := s.recalls.ReadAll(ctx)
	if err != nil {
		log.Error("failed to read recall store: %v", err)
		return nil, err
	}

	stats := &models.RecallStats{TotalScheduled: len(snap)}
	horizon := now.Add(statsWindowDays * 24 * time.Hour)
	for _, it := range snap {
		if it.Completed {
			stats.TotalCompleted++
			continue
		}
		if !it.DueAt.Before(now) && !it.DueAt.After(horizon) {
			stats.UpcomingCount++
		}
	}
	if stats.TotalScheduled > 0 {
		stats.CompletionRate = float64(stats.TotalCompleted) / float64(stats.TotalScheduled)
	}
	return stats, nil
}
