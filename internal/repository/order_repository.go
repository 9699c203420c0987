package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface as a JSON array
// stored under a single key.
type orderRepository struct {
	store  storage.Store
	key    string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewOrderRepository creates a new storage-backed order repository.
func NewOrderRepository(store storage.Store, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		store:  store,
		key:    OrdersKey,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// CreateOrder appends an order to the durable order list.
func (r *orderRepository) CreateOrder(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return err
	}

	orders = append(orders, *order)

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}

	if err := r.store.Set(ctx, r.key, data); err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID).
		Int("orders", len(orders)).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}

	r.logger.Debug().Str("order_id", id).Msg("order not found")
	return nil, nil
}

// List returns every stored order in placement order.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

// load reads the order list. A missing or malformed entry reads as empty.
func (r *orderRepository) load(ctx context.Context) ([]model.Order, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read orders")
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	var orders []model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		r.logger.Warn().Err(err).Msg("stored orders are malformed, treating as empty")
		return nil, nil
	}

	return orders, nil
}
