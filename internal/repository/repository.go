package repository

import (
	"context"

	"storefront/internal/model"
)

// OrdersKey is the storage key holding the JSON array of placed orders.
const OrdersKey = "bwk-orders"

// ProductRepository defines the interface for product data access operations.
// Products come from the static catalog; slices are returned in catalog order.
type ProductRepository interface {
	// GetAll retrieves every product in catalog order.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetBySlug retrieves a single product by its slug. Returns nil when absent.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// GetByCategory retrieves the products of one category in catalog order.
	GetByCategory(ctx context.Context, category model.CategorySlug) ([]model.Product, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// CreateOrder appends an order to the durable order list.
	CreateOrder(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// List returns every stored order in placement order.
	List(ctx context.Context) ([]model.Order, error)
}
