package model

import "github.com/shopspring/decimal"

// SortMode selects the ordering of a product listing.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortName      SortMode = "name"
)

// Valid reports whether the sort mode is known. The empty mode means relevance.
func (s SortMode) Valid() bool {
	switch s {
	case "", SortRelevance, SortPriceAsc, SortPriceDesc, SortName:
		return true
	}
	return false
}

// ListProductsParams holds the optional filters of a product listing.
type ListProductsParams struct {
	Category CategorySlug
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     SortMode
	Page     int
	Limit    int
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Data       []Product `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}
