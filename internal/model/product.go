package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Product represents a household-goods item in the catalogue.
type Product struct {
	ID            string           `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Category      CategorySlug     `json:"category"`
	Images        []string         `json:"images"`
	Specs         []ProductSpec    `json:"specs"`
	Featured      bool             `json:"featured,omitempty"`
	InStock       bool             `json:"inStock"`
	Variants      []ProductVariant `json:"variants,omitempty"`
}

// ProductSpec is a label/value pair shown on the product page.
type ProductSpec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ProductVariant is a named sub-option of a product, such as a size.
type ProductVariant struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Price   *decimal.Decimal `json:"price,omitempty"`
	InStock bool             `json:"inStock"`
}

// Variant returns the variant with the given ID, if the product has one.
func (p *Product) Variant(id string) (*ProductVariant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of p.
func (p Product) Clone() Product {
	c := p
	c.OriginalPrice = clonePrice(p.OriginalPrice)
	c.Images = slices.Clone(p.Images)
	c.Specs = slices.Clone(p.Specs)
	c.Variants = slices.Clone(p.Variants)
	for i := range c.Variants {
		c.Variants[i].Price = clonePrice(c.Variants[i].Price)
	}
	return c
}

func clonePrice(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
