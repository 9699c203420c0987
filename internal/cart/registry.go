package cart

import (
	"context"
	"sync"
	"time"

	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// DefaultIdleTimeout is how long an unused cart stays in memory.
const DefaultIdleTimeout = 30 * time.Minute

// Registry hands out one Store per cart id, opening stores lazily. Carts that
// have not been opened for the idle timeout are flushed and dropped; the next
// Open reloads them from storage.
type Registry struct {
	mu          sync.Mutex
	stores      map[string]*entry
	backend     storage.Store
	idleTimeout time.Duration
	now         func() time.Time
	lastSweep   time.Time
	logger      zerolog.Logger
}

type entry struct {
	store    *Store
	lastUsed time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIdleTimeout sets how long an unused cart is kept in memory.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

// WithClock replaces time.Now for idle tracking.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a registry whose carts persist to backend.
func NewRegistry(backend storage.Store, logger zerolog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		stores:      make(map[string]*entry),
		backend:     backend,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSweep = r.now()
	return r
}

// Key returns the storage key for a cart id. The empty id maps to StorageKey.
func Key(id string) string {
	if id == "" {
		return StorageKey
	}
	return StorageKey + ":" + id
}

// Open returns the store for id, loading it from storage on first use. A store
// whose load failed is returned but not kept, so the next Open retries.
func (r *Registry) Open(ctx context.Context, id string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(ctx, now)

	if e, ok := r.stores[id]; ok {
		e.lastUsed = now
		return e.store
	}

	s := NewStore(ctx, r.backend, Key(id), r.logger)
	if err := s.LoadErr(); err != nil {
		r.logger.Warn().Err(err).Str("cart_id", id).Msg("cart not cached after failed load")
		return s
	}
	r.stores[id] = &entry{store: s, lastUsed: now}

	r.logger.Debug().Str("cart_id", id).Int("open_carts", len(r.stores)).Msg("cart opened")

	return s
}

// sweepLocked evicts idle carts. It runs at most once per idle timeout.
func (r *Registry) sweepLocked(ctx context.Context, now time.Time) {
	if now.Sub(r.lastSweep) < r.idleTimeout {
		return
	}
	r.lastSweep = now

	evicted := 0
	for id, e := range r.stores {
		if now.Sub(e.lastUsed) < r.idleTimeout {
			continue
		}
		e.store.Flush(ctx)
		delete(r.stores, id)
		evicted++
	}

	if evicted > 0 {
		r.logger.Debug().Int("evicted", evicted).Int("open_carts", len(r.stores)).Msg("idle carts evicted")
	}
}

// Len returns the number of open carts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.stores)
}

// Close flushes and detaches every open cart.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.stores {
		e.store.Close(ctx)
		delete(r.stores, id)
	}

	r.logger.Info().Msg("cart registry closed")
}
