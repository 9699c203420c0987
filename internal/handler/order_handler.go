package handler

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

const defaultShippingOption = "standard"

// OrderHandler handles checkout and order HTTP requests.
type OrderHandler struct {
	carts  *cart.Registry
	client service.CommerceClient
	logger zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(carts *cart.Registry, client service.CommerceClient, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		carts:  carts,
		client: client,
		logger: logger.With().Str("handler", "order").Logger(),
	}
}

// ShippingOptions handles GET /api/shipping-options.
func (h *OrderHandler) ShippingOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.client.ListShippingOptions(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve shipping options", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, options)
}

// Checkout handles POST /api/checkout. The ordered items are then taken out of
// the caller's cart. An empty shipping option selects standard delivery.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := validateCustomer(req.Customer); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), h.logger)
		return
	}

	options, err := h.client.ListShippingOptions(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve shipping options", h.logger)
		return
	}

	optionID := req.ShippingOption
	if optionID == "" {
		optionID = defaultShippingOption
	}
	i := slices.IndexFunc(options, func(o model.ShippingOption) bool { return o.ID == optionID })
	if i < 0 {
		writeServiceError(w, r, model.ErrUnknownShipping, "", h.logger)
		return
	}
	shipping := options[i].Price

	id, issued, ok := resolveCartID(w, r, h.logger)
	if !ok {
		return
	}
	if issued {
		writeServiceError(w, r, model.ErrEmptyCart, "", h.logger)
		return
	}

	store := h.carts.Open(r.Context(), id)
	snapshot := store.Snapshot(&shipping)
	if len(snapshot.Items) == 0 {
		writeServiceError(w, r, model.ErrEmptyCart, "", h.logger)
		return
	}

	var opts []service.CheckoutOption
	if req.PaymentMethod != "" {
		opts = append(opts, service.WithPaymentMethod(req.PaymentMethod))
	}

	result, err := h.client.CreateCheckoutSession(r.Context(), snapshot, req.Customer, opts...)
	if err != nil {
		writeServiceError(w, r, err, "failed to create order", h.logger)
		return
	}

	if result.Success {
		store.RemoveOrdered(r.Context(), snapshot.Items)
	}

	h.logger.Info().
		Str("cart_id", id).
		Str("order_id", result.OrderID).
		Str("shipping_option", optionID).
		Msg("checkout completed")

	writeJSON(w, http.StatusCreated, result)
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.client.GetOrderStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve order", h.logger)
		return
	}

	if order == nil {
		writeServiceError(w, r, model.ErrOrderNotFound, "", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// validateCustomer checks the fields the checkout form marks as required.
func validateCustomer(c model.Customer) error {
	required := []struct {
		name  string
		value string
	}{
		{"customer.name", c.Name},
		{"customer.email", c.Email},
		{"customer.phone", c.Phone},
		{"customer.address.street", c.Address.Street},
		{"customer.address.number", c.Address.Number},
		{"customer.address.neighborhood", c.Address.Neighborhood},
		{"customer.address.city", c.Address.City},
		{"customer.address.state", c.Address.State},
		{"customer.address.zip", c.Address.Zip},
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s is required", f.name)
		}
	}

	return nil
}
