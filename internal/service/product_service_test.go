package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prod(id, name, price string, category model.CategorySlug, featured bool) model.Product {
	return model.Product{
		ID:          id,
		Slug:        "slug-" + id,
		Name:        name,
		Description: "Descrição de " + name,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Featured:    featured,
		InStock:     true,
	}
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{Products: []model.Product{
		prod("1", "Balde Azul", "24.90", model.CategoryCleaning, false),
		prod("2", "Vassoura", "32.50", model.CategoryCleaning, true),
		prod("3", "Água Sanitária", "8.00", model.CategoryCleaning, false),
		prod("4", "Caixa Organizadora", "29.90", model.CategoryOrganisation, true),
		prod("5", "cabide", "54.90", model.CategoryOrganisation, false),
		prod("6", "Copo Long Drink", "42.90", model.CategoryKitchen, true),
		prod("7", "Faca Chef", "89.90", model.CategoryKitchen, false),
		prod("8", "Balde de Gelo", "24.90", model.CategoryKitchen, false),
	}}
}

func newTestClient(t *testing.T, opts ...Option) CommerceClient {
	t.Helper()
	products := repository.NewProductRepository(testCatalog(), zerolog.Nop())
	orders := repository.NewOrderRepository(storage.NewMemoryStore(), zerolog.Nop())
	opts = append([]Option{WithSleeper(NoDelay)}, opts...)
	return NewMockClient(products, orders, zerolog.Nop(), opts...)
}

func ids(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestListProducts_Filters(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name    string
		params  model.ListProductsParams
		wantIDs []string
	}{
		{
			name:    "no filters uses relevance",
			params:  model.ListProductsParams{},
			wantIDs: []string{"2", "4", "6", "1", "3", "5", "7", "8"},
		},
		{
			name:    "category",
			params:  model.ListProductsParams{Category: model.CategoryKitchen, Sort: model.SortRelevance},
			wantIDs: []string{"6", "7", "8"},
		},
		{
			name:    "search matches name case-insensitively",
			params:  model.ListProductsParams{Search: "BALDE", Sort: model.SortPriceAsc},
			wantIDs: []string{"1", "8"},
		},
		{
			name:    "search matches description",
			params:  model.ListProductsParams{Search: "descrição de faca"},
			wantIDs: []string{"7"},
		},
		{
			name:    "price bounds are inclusive",
			params:  model.ListProductsParams{MinPrice: dec("24.90"), MaxPrice: dec("32.50"), Sort: model.SortPriceAsc},
			wantIDs: []string{"1", "8", "4", "2"},
		},
		{
			name:    "filters combine",
			params:  model.ListProductsParams{Category: model.CategoryCleaning, Search: "balde", MaxPrice: dec("30")},
			wantIDs: []string{"1"},
		},
		{
			name:    "unknown category matches nothing",
			params:  model.ListProductsParams{Category: "jardim"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := client.ListProducts(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(page.Data))
			assert.Equal(t, len(tt.wantIDs), page.Total)
		})
	}
}

func TestListProducts_Sort(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		sort    model.SortMode
		wantIDs []string
	}{
		// Equal prices keep catalog order.
		{sort: model.SortPriceAsc, wantIDs: []string{"3", "1", "8", "4", "2", "6", "5", "7"}},
		{sort: model.SortPriceDesc, wantIDs: []string{"7", "5", "6", "2", "4", "1", "8", "3"}},
		// Accents and case do not push names to the end.
		{sort: model.SortName, wantIDs: []string{"3", "1", "8", "5", "4", "6", "7", "2"}},
		{sort: model.SortRelevance, wantIDs: []string{"2", "4", "6", "1", "3", "5", "7", "8"}},
		{sort: "bogus", wantIDs: []string{"2", "4", "6", "1", "3", "5", "7", "8"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			page, err := client.ListProducts(context.Background(), model.ListProductsParams{Sort: tt.sort, Limit: 100})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(page.Data))
		})
	}
}

func TestListProducts_Pagination(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name           string
		page, limit    int
		wantPage       int
		wantTotalPages int
		wantIDs        []string
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantTotalPages: 1, wantIDs: []string{"2", "4", "6", "1", "3", "5", "7", "8"}},
		{name: "first page", page: 1, limit: 3, wantPage: 1, wantTotalPages: 3, wantIDs: []string{"2", "4", "6"}},
		{name: "last partial page", page: 3, limit: 3, wantPage: 3, wantTotalPages: 3, wantIDs: []string{"7", "8"}},
		{name: "past the end", page: 4, limit: 3, wantPage: 4, wantTotalPages: 3, wantIDs: []string{}},
		{name: "negative page", page: -2, limit: 5, wantPage: 1, wantTotalPages: 2, wantIDs: []string{"2", "4", "6", "1", "3"}},
		{name: "max limit", page: 1, limit: math.MaxInt, wantPage: 1, wantTotalPages: 1, wantIDs: []string{"2", "4", "6", "1", "3", "5", "7", "8"}},
		{name: "max limit past the end", page: 3, limit: math.MaxInt, wantPage: 3, wantTotalPages: 1, wantIDs: []string{}},
		{name: "max page", page: math.MaxInt, limit: 2, wantPage: math.MaxInt, wantTotalPages: 4, wantIDs: []string{}},
		{name: "large page and limit", page: 1 << 40, limit: 1 << 40, wantPage: 1 << 40, wantTotalPages: 1, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := client.ListProducts(context.Background(), model.ListProductsParams{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantTotalPages, page.TotalPages)
			assert.Equal(t, 8, page.Total)
			assert.Equal(t, tt.wantIDs, ids(page.Data))
		})
	}
}

func TestListProducts_PagesCoverFilteredSetOnce(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, sort := range []model.SortMode{model.SortRelevance, model.SortPriceAsc, model.SortPriceDesc, model.SortName} {
		for limit := 1; limit <= 9; limit++ {
			t.Run(fmt.Sprintf("%s/limit=%d", sort, limit), func(t *testing.T) {
				full, err := client.ListProducts(ctx, model.ListProductsParams{Sort: sort, Limit: 100})
				require.NoError(t, err)

				first, err := client.ListProducts(ctx, model.ListProductsParams{Sort: sort, Limit: limit})
				require.NoError(t, err)

				var all []string
				for p := 1; p <= first.TotalPages; p++ {
					page, err := client.ListProducts(ctx, model.ListProductsParams{Sort: sort, Page: p, Limit: limit})
					require.NoError(t, err)
					assert.Equal(t, full.Total, page.Total)
					all = append(all, ids(page.Data)...)
				}

				assert.Equal(t, ids(full.Data), all)
			})
		}
	}
}

func TestGetProductBySlug(t *testing.T) {
	client := newTestClient(t)

	p, err := client.GetProductBySlug(context.Background(), "slug-4")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "4", p.ID)

	p, err = client.GetProductBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetProductByID(t *testing.T) {
	client := newTestClient(t)

	p, err := client.GetProductByID(context.Background(), "7")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Faca Chef", p.Name)

	p, err = client.GetProductByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetRelatedProducts(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name      string
		productID string
		limit     int
		wantIDs   []string
	}{
		{name: "same category excluding source", productID: "1", limit: 4, wantIDs: []string{"2", "3"}},
		{name: "limit applies", productID: "6", limit: 1, wantIDs: []string{"7"}},
		{name: "default limit", productID: "6", limit: 0, wantIDs: []string{"7", "8"}},
		{name: "unknown product", productID: "nope", limit: 4, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			related, err := client.GetRelatedProducts(context.Background(), tt.productID, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(related))
		})
	}
}

func TestGetFeaturedProducts(t *testing.T) {
	client := newTestClient(t)

	featured, err := client.GetFeaturedProducts(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6"}, ids(featured))

	featured, err = client.GetFeaturedProducts(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, ids(featured))
}

func TestListCategories(t *testing.T) {
	client := newTestClient(t)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Categories(), categories)
	assert.Len(t, categories, 3)
}

func TestLatency(t *testing.T) {
	var slept []time.Duration
	record := func(d time.Duration) { slept = append(slept, d) }
	client := newTestClient(t, WithSleeper(record))
	ctx := context.Background()

	_, _ = client.ListProducts(ctx, model.ListProductsParams{})
	_, _ = client.GetProductBySlug(ctx, "slug-1")
	_, _ = client.GetRelatedProducts(ctx, "1", 4)
	_, _ = client.GetFeaturedProducts(ctx, 8)
	_, _ = client.ListCategories(ctx)
	_, _ = client.CreateCheckoutSession(ctx, model.Cart{}, model.Customer{})
	_, _ = client.GetOrderStatus(ctx, "x")

	ms := time.Millisecond
	assert.Equal(t, []time.Duration{100 * ms, 50 * ms, 50 * ms, 50 * ms, 50 * ms, 500 * ms, 100 * ms}, slept)
}
