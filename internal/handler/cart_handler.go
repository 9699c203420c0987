package handler

import (
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartHandler handles cart HTTP requests. Carts are addressed by the
// X-Cart-ID header; a new id is issued when the header is absent.
type CartHandler struct {
	carts  *cart.Registry
	client service.CommerceClient
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Registry, client service.CommerceClient, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		client: client,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// resolveCartID reads the cart id header, issuing a new id when it is missing.
// The id is echoed in the response. Reports false after writing an error.
func resolveCartID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (id string, issued bool, ok bool) {
	id = r.Header.Get(middleware.CartIDHeader)
	if id == "" {
		id = uuid.NewString()
		issued = true
	} else if _, err := uuid.Parse(id); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid cart id", logger)
		return "", false, false
	}

	w.Header().Set(middleware.CartIDHeader, id)
	return id, issued, true
}

func (h *CartHandler) open(w http.ResponseWriter, r *http.Request) (*cart.Store, string, bool) {
	id, _, ok := resolveCartID(w, r, h.logger)
	if !ok {
		return nil, "", false
	}
	return h.carts.Open(r.Context(), id), id, true
}

// openExisting is open for routes that cannot fill a cart. A freshly issued id
// has nothing stored yet, so it gets an empty view without opening a store.
func (h *CartHandler) openExisting(w http.ResponseWriter, r *http.Request) (*cart.Store, string, bool) {
	id, issued, ok := resolveCartID(w, r, h.logger)
	if !ok {
		return nil, "", false
	}
	if issued {
		writeJSON(w, http.StatusOK, emptyView(id))
		return nil, "", false
	}
	return h.carts.Open(r.Context(), id), id, true
}

func emptyView(id string) model.CartView {
	return model.CartView{ID: id, Items: []model.CartItem{}, Subtotal: decimal.Zero}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.openExisting(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, store.View(id))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.openExisting(w, r)
	if !ok {
		return
	}
	store.ClearCart(r.Context())
	writeJSON(w, http.StatusOK, store.View(id))
}

// AddItem handles POST /api/cart/items. A missing quantity adds one unit.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddCartItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if req.ProductID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "productId is required", h.logger)
		return
	}
	if req.Quantity < 0 {
		writeServiceError(w, r, model.ErrInvalidQuantity, "", h.logger)
		return
	}

	product, err := h.client.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve product", h.logger)
		return
	}
	if product == nil {
		writeServiceError(w, r, model.ErrProductNotFound, "", h.logger)
		return
	}
	if req.VariantID != "" {
		if _, found := product.Variant(req.VariantID); !found {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "unknown variant for product", h.logger)
			return
		}
	}

	store, id, ok := h.open(w, r)
	if !ok {
		return
	}

	store.AddItem(r.Context(), *product, req.Quantity, req.VariantID)

	h.logger.Debug().
		Str("cart_id", id).
		Str("product_id", product.ID).
		Str("variant_id", req.VariantID).
		Int("quantity", req.Quantity).
		Msg("item added to cart")

	writeJSON(w, http.StatusOK, store.View(id))
}

// UpdateItem handles PATCH /api/cart/items/{productId}. A quantity of zero or
// less removes the item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCartItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	store, id, ok := h.openExisting(w, r)
	if !ok {
		return
	}

	store.UpdateQuantity(r.Context(), r.PathValue("productId"), req.Quantity, req.VariantID)
	writeJSON(w, http.StatusOK, store.View(id))
}

// RemoveItem handles DELETE /api/cart/items/{productId}?variantId=.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.openExisting(w, r)
	if !ok {
		return
	}

	store.RemoveItem(r.Context(), r.PathValue("productId"), r.URL.Query().Get("variantId"))
	writeJSON(w, http.StatusOK, store.View(id))
}

// Toggle handles POST /api/cart/toggle.
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	store, id, ok := h.open(w, r)
	if !ok {
		return
	}

	store.ToggleCart()
	writeJSON(w, http.StatusOK, store.View(id))
}

// SetOpen handles PUT /api/cart/open.
func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	var req model.SetCartOpenRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	store, id, ok := h.open(w, r)
	if !ok {
		return
	}

	store.SetCartOpen(req.IsOpen)
	writeJSON(w, http.StatusOK, store.View(id))
}
