package storage

import (
	"context"
	"errors"
)

// ErrNoKey is returned by Get when a key has never been written.
// Absence is a valid state, distinct from a storage failure.
var ErrNoKey = errors.New("storage: key not found")

// Storage is a durable key-value primitive. The recall repositories
// serialize their snapshots under fixed keys; the medium behind it is
// an implementation detail. Set must be atomic: concurrent readers see
// either the previous value or the new one, never a torn write.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
