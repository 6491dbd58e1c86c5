package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Aditya-k24/AlgoPulse/internal/logger"
)

// SQLiteStorage persists values in the kv_store table. A namespace
// prefix scopes keys, so one database can hold several store instances
// (one per user/tenant, per the single-tenant store contract).
type SQLiteStorage struct {
	db        *sql.DB
	namespace string
}

// NewSQLiteStorage creates a Storage backed by the given database.
func NewSQLiteStorage(db *sql.DB, namespace string) *SQLiteStorage {
	return &SQLiteStorage{db: db, namespace: namespace}
}

func (s *SQLiteStorage) qualify(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + "/" + key
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("storage")

	var value []byte
	err := s.db.QueryRowContext(ctx, `
SELECT value FROM kv_store WHERE key = ?
`, s.qualify(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoKey
	}
	if err != nil {
		log.Error("failed to read key %s: %v", key, err)
		return nil, err
	}
	return value, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("storage")

	// Single-statement upsert keeps the replace atomic.
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv_store (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, s.qualify(key), value)
	if err != nil {
		log.Error("failed to write key %s: %v", key, err)
	}
	return err
}
