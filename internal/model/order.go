package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Address is a free-text delivery address.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

// Customer holds the buyer's contact details.
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	CPFCNPJ string  `json:"cpfCnpj,omitempty"`
	Address Address `json:"address"`
}

// Order is an immutable record created at checkout.
type Order struct {
	ID            string          `json:"id"`
	Items         []CartItem      `json:"items"`
	Customer      Customer        `json:"customer"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}

// CheckoutResult is returned by a checkout session.
type CheckoutResult struct {
	OrderID string `json:"orderId"`
	Success bool   `json:"success"`
}

// ShippingOption is a delivery tier offered at checkout.
type ShippingOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Days  string          `json:"days"`
}

// CheckoutRequest represents the request payload for POST /api/checkout.
type CheckoutRequest struct {
	Customer       Customer `json:"customer"`
	ShippingOption string   `json:"shippingOption"`
	PaymentMethod  string   `json:"paymentMethod,omitempty"`
}
