package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Aditya-k24/AlgoPulse/internal/errors"
	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/notify"
	"github.com/Aditya-k24/AlgoPulse/internal/recall"
	"github.com/Aditya-k24/AlgoPulse/internal/repository"
)

// lookupTimeout bounds best-effort collaborator calls (problem lookup
// for reminder titles, notification scheduling) so a slow dependency
// degrades the result instead of hanging the operation.
const lookupTimeout = 5 * time.Second

// RecallService orchestrates recall scheduling: it owns the write path
// from "problem solved" to persisted recall items and armed reminders.
type RecallService interface {
	ScheduleProblemRecall(ctx context.Context, problemID string, solvedAt time.Time, plan models.Plan) ([]models.RecallItem, error)
	MarkRecallCompleted(ctx context.Context, problemID string, dueAt time.Time) error
	RescheduleProblemRecalls(ctx context.Context, problemID string, newPlan models.Plan) ([]models.RecallItem, error)
	RecordAttempt(ctx context.Context, problemID string) (int, error)
	ClearAll(ctx context.Context) error
}

type recallService struct {
	recalls  repository.RecallRepository
	solved   repository.SolvedRepository
	problems repository.ProblemRepository
	notifier notify.Notifier
}

// NewRecallService creates a new RecallService
func NewRecallService(
	recalls repository.RecallRepository,
	solved repository.SolvedRepository,
	problems repository.ProblemRepository,
	notifier notify.Notifier,
) RecallService {
	return &recallService{
		recalls:  recalls,
		solved:   solved,
		problems: problems,
		notifier: notifier,
	}
}

func (s *recallService) ScheduleProblemRecall(ctx context.Context, problemID string, solvedAt time.Time, plan models.Plan) ([]models.RecallItem, error) {
	log := logger.FromContext(ctx)
	log.Debug("scheduling recalls: problem_id=%s, plan=%s", problemID, plan)

	if problemID == "" {
		return nil, errors.NewValidationError("problem_id", "must not be empty")
	}

	dueDates, err := recall.DueDates(solvedAt, plan)
	if err != nil {
		log.Error("failed to compute due dates: %v", err)
		return nil, err
	}

	// The solve record is what makes later reschedules possible.
	if err := s.solved.SetSolvedAt(ctx, problemID, solvedAt); err != nil {
		log.Error("failed to record solve time: %v", err)
		return nil, err
	}

	items := make([]models.RecallItem, len(dueDates))
	for i, due := range dueDates {
		items[i] = models.RecallItem{
			ProblemID:     problemID,
			DueAt:         due.UTC(),
			SequenceIndex: i,
			Completed:     false,
		}
	}

	// Persistence is authoritative; everything after this point is
	// best-effort.
	if err := s.recalls.UpsertMany(ctx, items); err != nil {
		log.Error("failed to persist recall items: %v", err)
		return nil, err
	}

	s.scheduleReminders(ctx, problemID, items)

	log.Info("scheduled %d recalls for problem_id=%s", len(items), problemID)
	return items, nil
}

// scheduleReminders arms one reminder per item. A failed reminder is
// logged and skipped: a missing notification degrades UX but never
// invalidates the persisted schedule.
func (s *recallService) scheduleReminders(ctx context.Context, problemID string, items []models.RecallItem) {
	log := logger.FromContext(ctx)

	title := s.problemTitle(ctx, problemID)
	for _, it := range items {
		nctx, cancel := context.WithTimeout(ctx, lookupTimeout)
		payload := notify.Payload{
			Title:        "Time to Recall!",
			Body:         fmt.Sprintf("Ready to practice %q again?", title),
			ProblemID:    problemID,
			RecallIndex:  it.SequenceIndex + 1,
			TotalRecalls: len(items),
		}
		handle, err := s.notifier.ScheduleAt(nctx, notify.RecallTag(problemID, it.SequenceIndex), it.DueAt, payload)
		cancel()
		if err != nil {
			log.Warn("failed to schedule reminder for problem_id=%s, seq=%d: %v", problemID, it.SequenceIndex, err)
			continue
		}
		log.Debug("reminder armed: handle=%s, due_at=%s", handle, it.DueAt.Format(time.RFC3339))
	}
}

func (s *recallService) problemTitle(ctx context.Context, problemID string) string {
	log := logger.FromContext(ctx)

	lctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	summaries, err := s.problems.BatchGet(lctx, []string{problemID})
	if err != nil {
		log.Warn("failed to look up problem title: %v", err)
		return models.UnknownProblemTitle
	}
	summary, ok := summaries[problemID]
	if !ok {
		return models.UnknownProblemTitle
	}
	return summary.Title
}

func (s *recallService) MarkRecallCompleted(ctx context.Context, problemID string, dueAt time.Time) error {
	log := logger.FromContext(ctx)
	log.Debug("completing recall: problem_id=%s, due_at=%s", problemID, dueAt.Format(time.RFC3339))

	// Other pending recalls for the problem are independent reviews
	// and stay armed.
	return s.recalls.MarkCompleted(ctx, problemID, dueAt, time.Now())
}

func (s *recallService) RescheduleProblemRecalls(ctx context.Context, problemID string, newPlan models.Plan) ([]models.RecallItem, error) {
	log := logger.FromContext(ctx)
	log.Debug("rescheduling recalls: problem_id=%s, new_plan=%s", problemID, newPlan)

	// Validate the plan before touching any state.
	if _, err := recall.Offsets(newPlan); err != nil {
		return nil, err
	}

	// Stale reminders go first so the user never sees duplicates for
	// the same problem.
	nctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	err := s.notifier.CancelByTag(nctx, notify.ProblemTag(problemID))
	cancel()
	if err != nil {
		log.Warn("failed to cancel reminders for problem_id=%s: %v", problemID, err)
	}

	if err := s.recalls.DeleteForProblem(ctx, problemID); err != nil {
		log.Error("failed to delete recall items: %v", err)
		return nil, err
	}

	solvedAt, ok, err := s.solved.SolvedAt(ctx, problemID)
	if err != nil {
		log.Error("failed to read solve record: %v", err)
		return nil, err
	}
	if !ok {
		log.Warn("reschedule requested for never-solved problem_id=%s", problemID)
		return nil, errors.NewNotFoundError("solve record", problemID)
	}

	return s.ScheduleProblemRecall(ctx, problemID, solvedAt, newPlan)
}

func (s *recallService) RecordAttempt(ctx context.Context, problemID string) (int, error) {
	log := logger.FromContext(ctx)

	if problemID == "" {
		return 0, errors.NewValidationError("problem_id", "must not be empty")
	}
	count, err := s.solved.IncrementAttempts(ctx, problemID)
	if err != nil {
		log.Error("failed to record attempt: %v", err)
		return 0, err
	}
	log.Debug("recorded attempt %d for problem_id=%s", count, problemID)
	return count, nil
}

func (s *recallService) ClearAll(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("clearing all recall data")

	nctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	err := s.notifier.CancelAll(nctx)
	cancel()
	if err != nil {
		log.Warn("failed to cancel pending reminders: %v", err)
	}

	if err := s.recalls.Clear(ctx); err != nil {
		log.Error("failed to clear recall store: %v", err)
		return err
	}
	if err := s.solved.Clear(ctx); err != nil {
		log.Error("failed to clear solve records: %v", err)
		return err
	}
	return nil
}
