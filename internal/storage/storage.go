// Package storage provides the durable key-value stores that back carts and
// orders. Values are opaque byte slices; callers own the encoding.
package storage

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key-value store without transactional guarantees.
// Concurrent writers to the same key race and the last write wins.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the resources held by the store.
	Close() error
}

// New builds the store selected by cfg.Storage.Backend.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "storage").Str("backend", cfg.Storage.Backend).Logger()

	switch cfg.Storage.Backend {
	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage, carts and orders will not survive a restart")
		return NewMemoryStore(), nil

	case config.StorageFile:
		return NewFileStore(cfg.Storage.Dir, logger)

	case config.StorageRedis:
		client, err := database.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise redis storage: %w", err)
		}
		return NewRedisStore(client, logger), nil

	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise postgres storage: %w", err)
		}
		store := NewPostgresStore(pool, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil

	case config.StorageMySQL:
		db, err := database.NewMySQL(ctx, cfg.MySQL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise mysql storage: %w", err)
		}
		store := NewMySQLStore(db, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
}
