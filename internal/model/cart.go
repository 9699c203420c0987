package model

import "github.com/shopspring/decimal"

// CartItem is a product (optionally a specific variant) with a quantity.
// The pair (Product.ID, VariantID) identifies the line.
type CartItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	VariantID string  `json:"variantId,omitempty"`
}

// Matches reports whether the item is the line for productID and variantID.
func (i CartItem) Matches(productID, variantID string) bool {
	return i.Product.ID == productID && i.VariantID == variantID
}

// Cart is the priced snapshot of a cart handed to checkout.
type Cart struct {
	Items    []CartItem       `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
	Shipping *decimal.Decimal `json:"shipping,omitempty"`
	Total    decimal.Decimal  `json:"total"`
}

// CartView is the cart state returned to API clients.
type CartView struct {
	ID        string          `json:"id"`
	Items     []CartItem      `json:"items"`
	IsOpen    bool            `json:"isOpen"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// AddCartItemRequest represents the payload for adding a line to the cart.
type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variantId,omitempty"`
}

// UpdateCartItemRequest represents the payload for changing a line's quantity.
type UpdateCartItemRequest struct {
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variantId,omitempty"`
}

// SetCartOpenRequest represents the payload for setting the drawer state.
type SetCartOpenRequest struct {
	IsOpen bool `json:"isOpen"`
}
