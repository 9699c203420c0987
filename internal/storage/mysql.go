package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type kvEntry struct {
	Key   string `db:"entry_key"`
	Value []byte `db:"entry_value"`
}

// MySQLStore keeps values in a single kv_entries table.
type MySQLStore struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// NewMySQLStore wraps an existing connection. Close closes it.
func NewMySQLStore(db *sqlx.DB, logger zerolog.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the kv_entries table if it does not exist.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv_entries (
			entry_key VARCHAR(255) NOT NULL PRIMARY KEY,
			entry_value LONGBLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		s.logger.Error().Err(err).Msg("failed to create kv_entries table")
		return fmt.Errorf("failed to create kv_entries table: %w", err)
	}
	return nil
}

func (s *MySQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry kvEntry
	err := s.db.GetContext(ctx, &entry, `SELECT entry_key, entry_value FROM kv_entries WHERE entry_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to query kv entry")
		return nil, fmt.Errorf("failed to query key %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *MySQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (entry_key, entry_value)
		VALUES (:entry_key, :entry_value)
		ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value)
	`

	if _, err := s.db.NamedExecContext(ctx, query, kvEntry{Key: key, Value: value}); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to upsert kv entry")
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *MySQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE entry_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
