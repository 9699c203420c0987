package service

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const orderIDRandomLen = 9

// CheckoutOption configures a checkout session.
type CheckoutOption func(*checkoutOptions)

type checkoutOptions struct {
	paymentMethod string
}

// WithPaymentMethod records the chosen payment method on the order.
func WithPaymentMethod(method string) CheckoutOption {
	return func(o *checkoutOptions) { o.paymentMethod = method }
}

// DefaultShippingOptions returns the shipping options offered at checkout.
func DefaultShippingOptions() []model.ShippingOption {
	return []model.ShippingOption{
		{ID: "standard", Name: "Entrega Padrão", Price: decimal.RequireFromString("19.90"), Days: "5-10 dias úteis"},
		{ID: "express", Name: "Entrega Expressa", Price: decimal.RequireFromString("39.90"), Days: "2-3 dias úteis"},
	}
}

// NewOrderID returns an id of the form BWK-<unix millis>-<9 uppercase base36 chars>.
func NewOrderID(now time.Time) string {
	id := uuid.New()
	random := strings.ToUpper(new(big.Int).SetBytes(id[:]).Text(36))
	if len(random) < orderIDRandomLen {
		random = strings.Repeat("0", orderIDRandomLen-len(random)) + random
	}
	return fmt.Sprintf("BWK-%d-%s", now.UnixMilli(), random[:orderIDRandomLen])
}

// ListShippingOptions returns the shipping options offered at checkout.
func (c *mockClient) ListShippingOptions(ctx context.Context) ([]model.ShippingOption, error) {
	c.sleep(c.latency.Lookup)
	return slices.Clone(c.shipping), nil
}

// CreateCheckoutSession snapshots the cart into a confirmed order and stores it.
// The order total is always subtotal plus shipping; a nil shipping counts as zero.
func (c *mockClient) CreateCheckoutSession(ctx context.Context, cart model.Cart, customer model.Customer, opts ...CheckoutOption) (*model.CheckoutResult, error) {
	c.sleep(c.latency.Checkout)

	var o checkoutOptions
	for _, opt := range opts {
		opt(&o)
	}

	shipping := decimal.Zero
	if cart.Shipping != nil {
		shipping = *cart.Shipping
	}

	items := slices.Clone(cart.Items)
	if items == nil {
		items = []model.CartItem{}
	}

	now := c.now()
	order := &model.Order{
		ID:            c.newOrderID(now),
		Items:         items,
		Customer:      customer,
		Subtotal:      cart.Subtotal,
		Shipping:      shipping,
		Total:         cart.Subtotal.Add(shipping),
		Status:        model.OrderStatusConfirmed,
		CreatedAt:     now,
		PaymentMethod: o.paymentMethod,
	}

	if err := c.orderRepo.CreateOrder(ctx, order); err != nil {
		c.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	c.logger.Info().
		Str("order_id", order.ID).
		Int("item_count", len(order.Items)).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created successfully")

	return &model.CheckoutResult{OrderID: order.ID, Success: true}, nil
}

// GetOrderStatus retrieves a placed order.
func (c *mockClient) GetOrderStatus(ctx context.Context, orderID string) (*model.Order, error) {
	c.sleep(c.latency.OrderStatus)

	order, err := c.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		c.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		c.logger.Debug().Str("order_id", orderID).Msg("order not found")
	}

	return order, nil
}
