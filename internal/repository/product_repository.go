package repository

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface over a loaded catalog.
type productRepository struct {
	products []model.Product
	byID     map[string]int
	bySlug   map[string]int
	logger   zerolog.Logger
}

// NewProductRepository creates a new catalog-backed product repository.
func NewProductRepository(c *catalog.Catalog, logger zerolog.Logger) ProductRepository {
	r := &productRepository{
		products: cloneProducts(c.Products),
		byID:     make(map[string]int, len(c.Products)),
		bySlug:   make(map[string]int, len(c.Products)),
		logger:   logger.With().Str("repository", "product").Logger(),
	}

	for i, p := range r.products {
		r.byID[p.ID] = i
		r.bySlug[p.Slug] = i
	}

	r.logger.Info().Int("products", len(r.products)).Msg("product repository ready")

	return r
}

// GetAll retrieves every product in catalog order.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	return cloneProducts(r.products), nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		r.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, nil
	}
	p := r.products[i].Clone()
	return &p, nil
}

// GetBySlug retrieves a single product by its slug.
func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	i, ok := r.bySlug[slug]
	if !ok {
		r.logger.Debug().Str("slug", slug).Msg("product not found")
		return nil, nil
	}
	p := r.products[i].Clone()
	return &p, nil
}

// GetByCategory retrieves the products of one category in catalog order.
func (r *productRepository) GetByCategory(ctx context.Context, category model.CategorySlug) ([]model.Product, error) {
	var products []model.Product
	for _, p := range r.products {
		if p.Category == category {
			products = append(products, p.Clone())
		}
	}
	return products, nil
}

// cloneProducts deep-copies products so callers never share slices or
// pointers with the repository.
func cloneProducts(products []model.Product) []model.Product {
	out := make([]model.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
