package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"storefront/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ListProducts filters by category, then search text, then price bounds, sorts
// and returns the requested page.
func (c *mockClient) ListProducts(ctx context.Context, params model.ListProductsParams) (*model.ProductPage, error) {
	c.sleep(c.latency.List)

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	filtered := filterProducts(products, params)
	sortProducts(filtered, params.Sort)

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}

	total := len(filtered)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	// Compare pages before multiplying so huge page or limit values cannot overflow.
	data := []model.Product{}
	if page <= totalPages {
		start := (page - 1) * limit
		data = filtered[start:min(start+limit, total)]
	}

	c.logger.Debug().
		Str("category", string(params.Category)).
		Str("search", params.Search).
		Str("sort", string(params.Sort)).
		Int("page", page).
		Int("limit", limit).
		Int("total", total).
		Msg("listed products")

	return &model.ProductPage{
		Data:       data,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func filterProducts(products []model.Product, params model.ListProductsParams) []model.Product {
	search := strings.ToLower(params.Search)

	return slices.DeleteFunc(products, func(p model.Product) bool {
		if params.Category != "" && p.Category != params.Category {
			return true
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return true
		}
		if params.MinPrice != nil && p.Price.LessThan(*params.MinPrice) {
			return true
		}
		if params.MaxPrice != nil && p.Price.GreaterThan(*params.MaxPrice) {
			return true
		}
		return false
	})
}

// sortProducts orders products in place. All modes are stable; unknown modes
// sort by relevance.
func sortProducts(products []model.Product, mode model.SortMode) {
	switch mode {
	case model.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case model.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case model.SortName:
		// Collators are not safe for concurrent use.
		col := collate.New(language.BrazilianPortuguese)
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return cmp.Compare(featuredRank(a), featuredRank(b))
		})
	}
}

func featuredRank(p model.Product) int {
	if p.Featured {
		return 0
	}
	return 1
}

// GetProductBySlug retrieves a product by slug.
func (c *mockClient) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	c.sleep(c.latency.Lookup)

	product, err := c.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		c.logger.Error().Err(err).Str("slug", slug).Msg("failed to get product by slug")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// GetProductByID retrieves a product by id.
func (c *mockClient) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	c.sleep(c.latency.Lookup)

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		c.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// GetRelatedProducts returns products of the same category in catalog order,
// excluding productID. A limit below 1 means the default of 4.
func (c *mockClient) GetRelatedProducts(ctx context.Context, productID string, limit int) ([]model.Product, error) {
	c.sleep(c.latency.Lookup)

	if limit < 1 {
		limit = defaultRelatedLimit
	}

	product, err := c.productRepo.GetByID(ctx, productID)
	if err != nil {
		c.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}
	if product == nil {
		return []model.Product{}, nil
	}

	sameCategory, err := c.productRepo.GetByCategory(ctx, product.Category)
	if err != nil {
		c.logger.Error().Err(err).Str("category", string(product.Category)).Msg("failed to get products by category")
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}

	related := slices.DeleteFunc(sameCategory, func(p model.Product) bool { return p.ID == productID })
	if related == nil {
		related = []model.Product{}
	}
	return related[:min(limit, len(related))], nil
}

// GetFeaturedProducts returns featured products in catalog order. A limit below
// 1 means the default of 8.
func (c *mockClient) GetFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	c.sleep(c.latency.Lookup)

	if limit < 1 {
		limit = defaultFeaturedLimit
	}

	products, err := c.productRepo.GetAll(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to get featured products")
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}

	featured := slices.DeleteFunc(products, func(p model.Product) bool { return !p.Featured })
	if featured == nil {
		featured = []model.Product{}
	}
	return featured[:min(limit, len(featured))], nil
}

// ListCategories returns the category set.
func (c *mockClient) ListCategories(ctx context.Context) ([]model.Category, error) {
	c.sleep(c.latency.Lookup)
	return model.Categories(), nil
}
