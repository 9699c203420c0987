package service

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// CommerceClient is the backend contract used by the storefront. Lookup misses
// return nil with no error.
type CommerceClient interface {
	// ListProducts filters, sorts and paginates the catalog.
	ListProducts(ctx context.Context, params model.ListProductsParams) (*model.ProductPage, error)

	// GetProductBySlug retrieves a product by slug.
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)

	// GetProductByID retrieves a product by id.
	GetProductByID(ctx context.Context, id string) (*model.Product, error)

	// GetRelatedProducts returns up to limit products sharing the category of productID.
	GetRelatedProducts(ctx context.Context, productID string, limit int) ([]model.Product, error)

	// GetFeaturedProducts returns up to limit featured products.
	GetFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)

	// ListCategories returns the category set.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// ListShippingOptions returns the shipping options offered at checkout.
	ListShippingOptions(ctx context.Context) ([]model.ShippingOption, error)

	// CreateCheckoutSession places an order for the cart.
	CreateCheckoutSession(ctx context.Context, cart model.Cart, customer model.Customer, opts ...CheckoutOption) (*model.CheckoutResult, error)

	// GetOrderStatus retrieves a placed order.
	GetOrderStatus(ctx context.Context, orderID string) (*model.Order, error)
}

// Sleeper blocks for the given duration.
type Sleeper func(time.Duration)

// NoDelay is a Sleeper that returns immediately.
func NoDelay(time.Duration) {}

// LatencyProfile holds the simulated delay of each operation group.
type LatencyProfile struct {
	List        time.Duration
	Lookup      time.Duration
	Checkout    time.Duration
	OrderStatus time.Duration
}

// DefaultLatency mirrors the response times of the hosted backend.
func DefaultLatency() LatencyProfile {
	return LatencyProfile{
		List:        100 * time.Millisecond,
		Lookup:      50 * time.Millisecond,
		Checkout:    500 * time.Millisecond,
		OrderStatus: 100 * time.Millisecond,
	}
}

const (
	defaultPageLimit     = 12
	defaultRelatedLimit  = 4
	defaultFeaturedLimit = 8
)

// mockClient implements CommerceClient over the static catalog and the order repository.
type mockClient struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	sleep       Sleeper
	latency     LatencyProfile
	now         func() time.Time
	newOrderID  func(time.Time) string
	shipping    []model.ShippingOption
	logger      zerolog.Logger
}

// Option configures the mock client.
type Option func(*mockClient)

// WithSleeper replaces the delay function.
func WithSleeper(s Sleeper) Option {
	return func(c *mockClient) { c.sleep = s }
}

// WithLatency replaces the per-operation delays.
func WithLatency(l LatencyProfile) Option {
	return func(c *mockClient) { c.latency = l }
}

// WithClock replaces the time source used for order timestamps and ids.
func WithClock(now func() time.Time) Option {
	return func(c *mockClient) { c.now = now }
}

// WithOrderIDGenerator replaces the order id generator.
func WithOrderIDGenerator(gen func(time.Time) string) Option {
	return func(c *mockClient) { c.newOrderID = gen }
}

// WithShippingOptions replaces the offered shipping options.
func WithShippingOptions(options []model.ShippingOption) Option {
	return func(c *mockClient) { c.shipping = options }
}

// NewMockClient creates the in-process commerce client.
func NewMockClient(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
	opts ...Option,
) CommerceClient {
	c := &mockClient{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		sleep:       time.Sleep,
		latency:     DefaultLatency(),
		now:         time.Now,
		newOrderID:  NewOrderID,
		shipping:    DefaultShippingOptions(),
		logger:      logger.With().Str("service", "commerce").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
