package kv

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/Aditya-k24/AlgoPulse/internal/errors"
	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/repository"
	"github.com/Aditya-k24/AlgoPulse/internal/storage"
)

// Fixed storage keys for the solved-time and attempt snapshots.
const (
	solvedAtKey = "algopulse_solved_at"
	attemptsKey = "algopulse_attempts"
)

type solvedRepository struct {
	store storage.Storage
	mu    sync.RWMutex
}

// NewSolvedRepository creates a SolvedRepository on top of a generic
// key-value Storage. Solve times are kept as RFC3339 strings in a
// single snapshot, attempts as a counter map under their own key.
func NewSolvedRepository(store storage.Storage) repository.SolvedRepository {
	return &solvedRepository{store: store}
}

func (r *solvedRepository) loadTimes(ctx context.Context) (map[string]string, error) {
	raw, err := r.store.Get(ctx, solvedAtKey)
	if stderrors.Is(err, storage.ErrNoKey) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.NewTransientIOError("solved snapshot read", err)
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return m, nil
}

func (r *solvedRepository) saveTimes(ctx context.Context, m map[string]string) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if err := r.store.Set(ctx, solvedAtKey, raw); err != nil {
		return errors.NewTransientIOError("solved snapshot write", err)
	}
	return nil
}

func (r *solvedRepository) loadAttempts(ctx context.Context) (map[string]int, error) {
	raw, err := r.store.Get(ctx, attemptsKey)
	if stderrors.Is(err, storage.ErrNoKey) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, errors.NewTransientIOError("attempts snapshot read", err)
	}
	var m map[string]int
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return m, nil
}

func (r *solvedRepository) saveAttempts(ctx context.Context, m map[string]int) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if err := r.store.Set(ctx, attemptsKey, raw); err != nil {
		return errors.NewTransientIOError("attempts snapshot write", err)
	}
	return nil
}

func (r *solvedRepository) SetSolvedAt(ctx context.Context, problemID string, solvedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("solved_repo")
	log.Debug("recording solve: problem_id=%s", problemID)

	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.loadTimes(ctx)
	if err != nil {
		return err
	}
	m[problemID] = solvedAt.UTC().Format(time.RFC3339Nano)
	return r.saveTimes(ctx, m)
}

func (r *solvedRepository) SolvedAt(ctx context.Context, problemID string) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.loadTimes(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	raw, ok := m[problemID]
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, errors.NewInternalError(err)
	}
	return t, true, nil
}

func (r *solvedRepository) All(ctx context.Context) (map[string]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.loadTimes(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(m))
	for id, raw := range m {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			continue
		}
		out[id] = t
	}
	return out, nil
}

func (r *solvedRepository) IncrementAttempts(ctx context.Context, problemID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.loadAttempts(ctx)
	if err != nil {
		return 0, err
	}
	m[problemID]++
	if err := r.saveAttempts(ctx, m); err != nil {
		return 0, err
	}
	return m[problemID], nil
}

func (r *solvedRepository) Attempts(ctx context.Context, problemID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.loadAttempts(ctx)
	if err != nil {
		return 0, err
	}
	return m[problemID], nil
}

func (r *solvedRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("solved_repo")
	log.Info("clearing solve records and attempts")

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.saveTimes(ctx, map[string]string{}); err != nil {
		return err
	}
	return r.saveAttempts(ctx, map[string]int{})
}
