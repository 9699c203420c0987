package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func testCustomer() model.Customer {
	return model.Customer{
		Name:  "Maria Souza",
		Email: "maria@example.com",
		Phone: "+55 11 99999-0000",
		Address: model.Address{
			Street:       "Rua das Flores",
			Number:       "100",
			Neighborhood: "Centro",
			City:         "São Paulo",
			State:        "SP",
			Zip:          "01000-000",
		},
	}
}

func testCart(shipping *decimal.Decimal) model.Cart {
	items := []model.CartItem{
		{Product: prod("1", "Balde Azul", "24.90", model.CategoryCleaning, false), Quantity: 2},
		{Product: prod("6", "Copo Long Drink", "42.90", model.CategoryKitchen, true), Quantity: 1, VariantID: "kit-6"},
	}
	return model.Cart{
		Items:    items,
		Subtotal: decimal.RequireFromString("92.70"),
		Shipping: shipping,
		// Deliberately inconsistent: the order total must not trust it.
		Total: decimal.RequireFromString("1"),
	}
}

func TestNewOrderID(t *testing.T) {
	now := time.UnixMilli(1714564800123)
	pattern := regexp.MustCompile(`^BWK-1714564800123-[0-9A-Z]{9}$`)

	seen := make(map[string]bool)
	for range 100 {
		id := NewOrderID(now)
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestCreateCheckoutSession_ThenGetOrderStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	client := newTestClient(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	tests := []struct {
		name          string
		shipping      *decimal.Decimal
		opts          []CheckoutOption
		wantShipping  string
		wantTotal     string
		wantPayMethod string
	}{
		{name: "standard shipping", shipping: dec("19.90"), wantShipping: "19.9", wantTotal: "112.6"},
		{name: "no shipping", shipping: nil, wantShipping: "0", wantTotal: "92.7"},
		{name: "payment method", shipping: dec("39.90"), opts: []CheckoutOption{WithPaymentMethod("pix")}, wantShipping: "39.9", wantTotal: "132.6", wantPayMethod: "pix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := testCart(tt.shipping)

			result, err := client.CreateCheckoutSession(ctx, cart, testCustomer(), tt.opts...)
			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Regexp(t, `^BWK-\d+-[0-9A-Z]{9}$`, result.OrderID)

			order, err := client.GetOrderStatus(ctx, result.OrderID)
			require.NoError(t, err)
			require.NotNil(t, order)

			assert.Equal(t, result.OrderID, order.ID)
			assert.Equal(t, model.OrderStatusConfirmed, order.Status)
			assert.True(t, order.CreatedAt.Equal(now))
			assert.Equal(t, testCustomer(), order.Customer)
			assert.Equal(t, tt.wantPayMethod, order.PaymentMethod)
			assert.Equal(t, "92.7", order.Subtotal.String())
			assert.Equal(t, tt.wantShipping, order.Shipping.String())
			assert.Equal(t, tt.wantTotal, order.Total.String())
			assert.True(t, order.Total.Equal(order.Subtotal.Add(order.Shipping)))

			require.Len(t, order.Items, len(cart.Items))
			for i := range cart.Items {
				assert.Equal(t, cart.Items[i].Product.ID, order.Items[i].Product.ID)
				assert.Equal(t, cart.Items[i].Quantity, order.Items[i].Quantity)
				assert.Equal(t, cart.Items[i].VariantID, order.Items[i].VariantID)
			}
		})
	}
}

func TestCreateCheckoutSession_SnapshotIsIndependent(t *testing.T) {
	orders := new(MockOrderRepository)
	var stored *model.Order
	orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*model.Order) }).
		Return(nil)

	products := repository.NewProductRepository(testCatalog(), zerolog.Nop())
	client := NewMockClient(products, orders, zerolog.Nop(), WithSleeper(NoDelay), WithOrderIDGenerator(func(time.Time) string { return "BWK-1-ABCDEFGHI" }))

	cart := testCart(nil)
	result, err := client.CreateCheckoutSession(context.Background(), cart, testCustomer())
	require.NoError(t, err)
	assert.Equal(t, "BWK-1-ABCDEFGHI", result.OrderID)

	cart.Items[0].Quantity = 99
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	orders.AssertExpectations(t)
}

func TestCreateCheckoutSession_StorageFailure(t *testing.T) {
	orders := new(MockOrderRepository)
	orders.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	products := repository.NewProductRepository(testCatalog(), zerolog.Nop())
	client := NewMockClient(products, orders, zerolog.Nop(), WithSleeper(NoDelay))

	result, err := client.CreateCheckoutSession(context.Background(), testCart(nil), testCustomer())
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "failed to create order")
}

func TestGetOrderStatus(t *testing.T) {
	t.Run("unknown order", func(t *testing.T) {
		client := newTestClient(t)
		order, err := client.GetOrderStatus(context.Background(), "BWK-0-NOPE")
		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("repository failure", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", mock.Anything, "BWK-1").Return(nil, errors.New("timeout"))

		products := repository.NewProductRepository(testCatalog(), zerolog.Nop())
		client := NewMockClient(products, orders, zerolog.Nop(), WithSleeper(NoDelay))

		order, err := client.GetOrderStatus(context.Background(), "BWK-1")
		assert.Nil(t, order)
		assert.ErrorContains(t, err, "failed to get order")
	})
}

func TestListShippingOptions(t *testing.T) {
	client := newTestClient(t)

	options, err := client.ListShippingOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "standard", options[0].ID)
	assert.Equal(t, "19.9", options[0].Price.String())
	assert.Equal(t, "5-10 dias úteis", options[0].Days)
	assert.Equal(t, "express", options[1].ID)
	assert.Equal(t, "39.9", options[1].Price.String())

	custom := []model.ShippingOption{{ID: "pickup", Name: "Retirada", Price: decimal.Zero, Days: "1 dia útil"}}
	client = newTestClient(t, WithShippingOptions(custom))
	options, err = client.ListShippingOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, custom, options)
}
