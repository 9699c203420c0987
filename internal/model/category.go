package model

// CategorySlug identifies one of the fixed catalogue categories.
type CategorySlug string

// The category set is closed: adding one means updating this list and the catalogue.
const (
	CategoryCleaning     CategorySlug = "limpeza-e-higiene"
	CategoryOrganisation CategorySlug = "organizacao-e-utilidades"
	CategoryKitchen      CategorySlug = "cozinha-e-bar"
)

// Category describes a catalogue category.
type Category struct {
	Slug        CategorySlug `json:"slug"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Image       string       `json:"image,omitempty"`
}

var categories = []Category{
	{
		Slug:        CategoryCleaning,
		Name:        "Limpeza e Higiene",
		Description: "Produtos essenciais para limpeza profissional e doméstica. Baldes, vassouras, rodos, esponjas e muito mais.",
	},
	{
		Slug:        CategoryOrganisation,
		Name:        "Organização e Utilidades",
		Description: "Soluções práticas para organizar ambientes residenciais e comerciais. Suportes, organizadores e acessórios.",
	},
	{
		Slug:        CategoryKitchen,
		Name:        "Cozinha e Bar",
		Description: "Utensílios de qualidade para cozinhas profissionais, bares e restaurantes. Copos, facas e acessórios.",
	},
}

// Categories returns the closed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether the slug belongs to the category set.
func (c CategorySlug) Valid() bool {
	for _, cat := range categories {
		if cat.Slug == c {
			return true
		}
	}
	return false
}
