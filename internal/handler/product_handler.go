package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalog HTTP requests.
type ProductHandler struct {
	client service.CommerceClient
	logger zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(client service.CommerceClient, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		client: client,
		logger: logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := model.ListProductsParams{
		Category: model.CategorySlug(q.Get("category")),
		Search:   q.Get("search"),
		Sort:     model.SortMode(q.Get("sort")),
	}

	if params.Category != "" && !params.Category.Valid() {
		writeServiceError(w, r, model.ErrInvalidCategory, "", h.logger)
		return
	}
	if !params.Sort.Valid() {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid sort parameter", h.logger)
		return
	}

	var err error
	if params.MinPrice, err = queryDecimal(r, "minPrice"); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid minPrice parameter", h.logger)
		return
	}
	if params.MaxPrice, err = queryDecimal(r, "maxPrice"); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid maxPrice parameter", h.logger)
		return
	}
	if params.Page, err = queryInt(r, "page"); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid page parameter", h.logger)
		return
	}
	if params.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid limit parameter", h.logger)
		return
	}

	page, err := h.client.ListProducts(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Featured handles GET /api/products/featured.
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid limit parameter", h.logger)
		return
	}

	products, err := h.client.GetFeaturedProducts(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve featured products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetBySlug handles GET /api/products/{slug}.
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.client.GetProductBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve product", h.logger)
		return
	}

	if product == nil {
		writeServiceError(w, r, model.ErrProductNotFound, "", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Related handles GET /api/products/{id}/related.
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid limit parameter", h.logger)
		return
	}

	products, err := h.client.GetRelatedProducts(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve related products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Categories handles GET /api/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.client.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve categories", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
