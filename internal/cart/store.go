// Package cart holds per-visitor shopping carts and keeps their item lists in
// durable storage.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// StorageKey is the storage key of the default cart.
const StorageKey = "bwk-cart"

// Store is a single shopping cart. Item changes are written through to the
// backing storage; the drawer flag lives in memory only.
//
// Storage failures are logged and never block a mutation.
type Store struct {
	mu      sync.Mutex
	items   []model.CartItem
	isOpen  bool
	backend storage.Store
	key     string
	closed  bool
	loadErr error
	logger  zerolog.Logger
}

// NewStore creates a cart bound to key in backend and loads any previously
// persisted items. A missing or unreadable entry leaves the cart empty; a
// storage read failure is reported by LoadErr.
func NewStore(ctx context.Context, backend storage.Store, key string, logger zerolog.Logger) *Store {
	s := &Store{
		backend: backend,
		key:     key,
		logger:  logger.With().Str("component", "cart").Str("cart_key", key).Logger(),
	}
	s.load(ctx)
	return s
}

// load reads the persisted items. It ignores cancellation of ctx so that an
// aborted request cannot leave a stored cart looking empty.
func (s *Store) load(ctx context.Context) {
	data, err := s.backend.Get(context.WithoutCancel(ctx), s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.loadErr = err
		s.logger.Error().Err(err).Msg("failed to load cart from storage")
		return
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Error().Err(err).Msg("failed to load cart from storage")
		return
	}

	// Drop entries that would break the quantity invariant.
	items = slices.DeleteFunc(items, func(item model.CartItem) bool {
		return item.Quantity < 1 || item.Product.ID == ""
	})

	s.items = items
	s.logger.Debug().Int("items", len(items)).Msg("cart loaded from storage")
}

// persist writes the item list. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.closed {
		return
	}

	items := s.items
	if items == nil {
		items = []model.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode cart")
		return
	}

	if err := s.backend.Set(ctx, s.key, data); err != nil {
		s.logger.Error().Err(err).Msg("failed to save cart to storage")
	}
}

func (s *Store) indexOf(productID, variantID string) int {
	return slices.IndexFunc(s.items, func(item model.CartItem) bool {
		return item.Matches(productID, variantID)
	})
}

// AddItem increments the quantity of the (product, variant) item or appends a
// new one. A quantity below 1 counts as 1.
func (s *Store) AddItem(ctx context.Context, product model.Product, quantity int, variantID string) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID, variantID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, model.CartItem{Product: product, Quantity: quantity, VariantID: variantID})
	}

	s.persist(ctx)
}

// RemoveItem deletes the matching item. Removing an absent item is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(ctx, productID, variantID)
}

func (s *Store) removeLocked(ctx context.Context, productID, variantID string) {
	i := s.indexOf(productID, variantID)
	if i < 0 {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persist(ctx)
}

// UpdateQuantity sets the quantity of the matching item. A quantity of zero or
// less removes it. Absent items are not created.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(ctx, productID, variantID)
		return
	}

	i := s.indexOf(productID, variantID)
	if i < 0 {
		return
	}
	s.items[i].Quantity = quantity
	s.persist(ctx)
}

// ClearCart empties the item list. The drawer flag is left untouched.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// RemoveOrdered takes the given items out of the cart after checkout. Each
// item's quantity is subtracted from its matching line and emptied lines are
// dropped, so anything added since the snapshot stays in the cart.
func (s *Store) RemoveOrdered(ctx context.Context, ordered []model.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, o := range ordered {
		i := s.indexOf(o.Product.ID, o.VariantID)
		if i < 0 {
			continue
		}
		s.items[i].Quantity -= o.Quantity
		if s.items[i].Quantity < 1 {
			s.items = slices.Delete(s.items, i, i+1)
		}
		changed = true
	}

	if changed {
		s.persist(ctx)
	}
}

// ToggleCart flips the drawer flag and returns the new value.
func (s *Store) ToggleCart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isOpen = !s.isOpen
	return s.isOpen
}

// SetCartOpen sets the drawer flag.
func (s *Store) SetCartOpen(isOpen bool) {
	s.mu.Lock()
	s.isOpen = isOpen
	s.mu.Unlock()
}

// Items returns a copy of the items in insertion order.
func (s *Store) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

// IsOpen reports the drawer flag.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isOpen
}

// ItemCount returns the sum of item quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return itemCount(s.items)
}

// Subtotal returns the sum of price times quantity over all items.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return subtotal(s.items)
}

// View returns a consistent read of the cart for API responses.
func (s *Store) View(id string) model.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := slices.Clone(s.items)
	if items == nil {
		items = []model.CartItem{}
	}

	return model.CartView{
		ID:        id,
		Items:     items,
		IsOpen:    s.isOpen,
		ItemCount: itemCount(s.items),
		Subtotal:  subtotal(s.items),
	}
}

// Snapshot builds the cart handed to checkout. A nil shipping counts as zero
// in the total.
func (s *Store) Snapshot(shipping *decimal.Decimal) model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := subtotal(s.items)
	total := sub
	if shipping != nil {
		total = total.Add(*shipping)
	}

	return model.Cart{
		Items:    slices.Clone(s.items),
		Subtotal: sub,
		Shipping: shipping,
		Total:    total,
	}
}

// LoadErr returns the storage error hit while loading, if any. Malformed
// data is not an error.
func (s *Store) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadErr
}

// Flush writes the item list to storage.
func (s *Store) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist(ctx)
}

// Close flushes the item list one last time and detaches the store from
// storage. Later mutations stay in memory.
func (s *Store) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.persist(ctx)
	s.closed = true
}

func itemCount(items []model.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// subtotal uses the product base price even when the item's variant carries its
// own price. Kept until pricing for variants is confirmed.
func subtotal(items []model.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}
