package repository

import (
	"context"
	"time"

	"github.com/Aditya-k24/AlgoPulse/internal/models"
)

// RecallRepository is the durable recall store, the single source of
// truth for recall state. All operations are scoped to one user; the
// caller wires one instance per tenant.
type RecallRepository interface {
	// UpsertMany merges items by natural key. For an existing key the
	// stored completion state wins unless the incoming item is itself
	// marked completed. The batch is applied atomically.
	UpsertMany(ctx context.Context, items []models.RecallItem) error
	// MarkCompleted sets completed and completedAt on the matching
	// item. Idempotent: completing an already-completed item keeps the
	// original completedAt. Returns NotFoundError when no item matches.
	MarkCompleted(ctx context.Context, problemID string, dueAt, completedAt time.Time) error
	// ReadAll returns a snapshot keyed by RecallKey.String().
	ReadAll(ctx context.Context) (map[string]models.RecallItem, error)
	// DeleteForProblem removes every item for the problem.
	DeleteForProblem(ctx context.Context, problemID string) error
	// Clear removes all items for the current user.
	Clear(ctx context.Context) error
}

// SolvedRepository records when each problem was last solved, and how
// many attempts it has taken. Solve times feed plan reschedules.
type SolvedRepository interface {
	SetSolvedAt(ctx context.Context, problemID string, solvedAt time.Time) error
	// SolvedAt returns the recorded solve time; ok is false when the
	// problem was never marked solved.
	SolvedAt(ctx context.Context, problemID string) (solvedAt time.Time, ok bool, err error)
	All(ctx context.Context) (map[string]time.Time, error)
	IncrementAttempts(ctx context.Context, problemID string) (int, error)
	Attempts(ctx context.Context, problemID string) (int, error)
	Clear(ctx context.Context) error
}

// ProblemRepository handles problem catalog data access.
type ProblemRepository interface {
	Get(ctx context.Context, id string) (*models.Problem, error)
	// BatchGet resolves problem summaries in one round trip. IDs with
	// no matching problem are simply absent from the result.
	BatchGet(ctx context.Context, ids []string) (map[string]models.ProblemSummary, error)
	List(ctx context.Context, filter models.ProblemFilter) ([]models.Problem, error)
	Count(ctx context.Context, filter models.ProblemFilter) (int, error)
	Categories(ctx context.Context) ([]string, error)
	// Upsert inserts the problem, or returns the existing ID when a
	// problem with the same title already exists.
	Upsert(ctx context.Context, p models.Problem) (string, error)
}
