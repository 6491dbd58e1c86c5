package kv

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/Aditya-k24/AlgoPulse/internal/errors"
	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/repository"
	"github.com/Aditya-k24/AlgoPulse/internal/storage"
)

// recallsKey is the fixed storage key for the recall snapshot.
const recallsKey = "algopulse_recalls"

// recallRepository keeps the whole recall state as one JSON snapshot
// under a fixed key. Mutations are read-modify-write under a single
// writer lock, so a half-applied batch is never persisted; reads take
// the read lock and fall back to the last good snapshot when the
// medium fails.
type recallRepository struct {
	store    storage.Storage
	mu       sync.RWMutex
	lastGood map[string]models.RecallItem
}

// NewRecallRepository creates a RecallRepository on top of a generic
// key-value Storage.
func NewRecallRepository(store storage.Storage) repository.RecallRepository {
	return &recallRepository{store: store}
}

// load reads the current snapshot. Callers must hold at least the read
// lock. A missing key is an empty store, not an error.
func (r *recallRepository) load(ctx context.Context) (map[string]models.RecallItem, error) {
	log := logger.FromContext(ctx).WithPrefix("recall_repo")

	raw, err := r.store.Get(ctx, recallsKey)
	if stderrors.Is(err, storage.ErrNoKey) {
		return map[string]models.RecallItem{}, nil
	}
	if err != nil {
		if r.lastGood != nil {
			log.Warn("storage read failed, serving last good snapshot: %v", err)
			return copySnapshot(r.lastGood), nil
		}
		log.Error("storage read failed with no cached snapshot: %v", err)
		return nil, errors.NewTransientIOError("recall snapshot read", err)
	}

	var snap map[string]models.RecallItem
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Error("failed to decode recall snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return snap, nil
}

// save persists the snapshot and refreshes the last good copy. Callers
// must hold the write lock.
func (r *recallRepository) save(ctx context.Context, snap map[string]models.RecallItem) error {
	log := logger.FromContext(ctx).WithPrefix("recall_repo")

	raw, err := json.Marshal(snap)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if err := r.store.Set(ctx, recallsKey, raw); err != nil {
		log.Error("storage write failed, prior state unchanged: %v", err)
		return errors.NewTransientIOError("recall snapshot write", err)
	}
	r.lastGood = copySnapshot(snap)
	return nil
}

func (r *recallRepository) UpsertMany(ctx context.Context, items []models.RecallItem) error {
	log := logger.FromContext(ctx).WithPrefix("recall_repo")
	log.Debug("upserting %d recall items", len(items))

	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		it = normalize(it)
		key := it.Key().String()
		if prev, ok := snap[key]; ok && prev.Completed && !it.Completed {
			// Completion is sticky unless the caller completes anew.
			it.Completed = prev.Completed
			it.CompletedAt = prev.CompletedAt
		}
		snap[key] = it
	}
	return r.save(ctx, snap)
}

func (r *recallRepository) MarkCompleted(ctx context.Context, problemID string, dueAt, completedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("recall_repo")
	log.Debug("marking recall completed: problem_id=%s", problemID)

	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return err
	}
	key := models.RecallKey{ProblemID: problemID, DueAt: dueAt}.String()
	it, ok := snap[key]
	if !ok {
		log.Warn("no recall item for key %s", key)
		return errors.NewNotFoundError("recall item", key)
	}
	if it.Completed {
		// Already completed; keep the first completedAt.
		return nil
	}
	at := completedAt.UTC()
	it.Completed = true
	it.CompletedAt = &at
	snap[key] = it
	return r.save(ctx, snap)
}

func (r *recallRepository) ReadAll(ctx context.Context) (map[string]models.RecallItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return copySnapshot(snap), nil
}

func (r *recallRepository) DeleteForProblem(ctx context.Context, problemID string) error {
	log := logger.FromContext(ctx).WithPrefix("recall_repo")
	log.Debug("deleting recall items for problem_id=%s", problemID)

	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return err
	}
	removed := 0
	for key, it := range snap {
		if it.ProblemID == problemID {
			delete(snap, key)
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	log.Debug("removed %d items for problem_id=%s", removed, problemID)
	return r.save(ctx, snap)
}

func (r *recallRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("recall_repo")
	log.Info("clearing all recall items")

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, map[string]models.RecallItem{})
}

// normalize pins timestamps to UTC so snapshots round-trip exactly.
func normalize(it models.RecallItem) models.RecallItem {
	it.DueAt = it.DueAt.UTC()
	if it.CompletedAt != nil {
		at := it.CompletedAt.UTC()
		it.CompletedAt = &at
	}
	return it
}

func copySnapshot(snap map[string]models.RecallItem) map[string]models.RecallItem {
	out := make(map[string]models.RecallItem, len(snap))
	for k, v := range snap {
		out[k] = v
	}
	return out
}
