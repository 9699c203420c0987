package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"storefront/internal/model"
)

//go:embed data/catalog.json
var defaultCatalog []byte

// ErrInvalidCatalog is returned when a decoded catalog breaks one of its invariants.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the static product catalog served by the mock commerce client.
type Catalog struct {
	Products []model.Product `json:"products"`
}

// Loader defines the interface for loading catalog files.
type Loader interface {
	// Load reads a catalog file and returns a validated Catalog.
	Load(ctx context.Context, path string) (*Catalog, error)
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Decode(bytes.NewReader(defaultCatalog), "catalog.json")
}

// Decode parses a catalog from r. The format is picked from name: a ".gz"
// suffix is decompressed first, ".yaml" and ".yml" are YAML, anything else is JSON.
func Decode(r io.Reader, name string) (*Catalog, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", name, err)
		}
	}

	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", name, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// yamlToJSON re-encodes a YAML document as JSON so prices go through
// decimal's JSON decoder.
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Validate checks ids and slugs are unique, names are set, prices are not
// negative, categories are known and variant ids are unique per product.
func (c *Catalog) Validate() error {
	ids := make(map[string]struct{}, len(c.Products))
	slugs := make(map[string]struct{}, len(c.Products))

	for i, p := range c.Products {
		if p.ID == "" {
			return fmt.Errorf("%w: product %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product id %q", ErrInvalidCatalog, p.ID)
		}
		ids[p.ID] = struct{}{}

		if p.Slug == "" {
			return fmt.Errorf("%w: product %q has no slug", ErrInvalidCatalog, p.ID)
		}
		if _, dup := slugs[p.Slug]; dup {
			return fmt.Errorf("%w: duplicate product slug %q", ErrInvalidCatalog, p.Slug)
		}
		slugs[p.Slug] = struct{}{}

		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: product %q has no name", ErrInvalidCatalog, p.ID)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("%w: product %q has a negative price", ErrInvalidCatalog, p.ID)
		}
		if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
			return fmt.Errorf("%w: product %q has a negative original price", ErrInvalidCatalog, p.ID)
		}
		if !p.Category.Valid() {
			return fmt.Errorf("%w: product %q has unknown category %q", ErrInvalidCatalog, p.ID, p.Category)
		}

		variants := make(map[string]struct{}, len(p.Variants))
		for _, v := range p.Variants {
			if v.ID == "" {
				return fmt.Errorf("%w: product %q has a variant without id", ErrInvalidCatalog, p.ID)
			}
			if _, dup := variants[v.ID]; dup {
				return fmt.Errorf("%w: product %q has duplicate variant %q", ErrInvalidCatalog, p.ID, v.ID)
			}
			variants[v.ID] = struct{}{}
			if v.Price != nil && v.Price.IsNegative() {
				return fmt.Errorf("%w: variant %q has a negative price", ErrInvalidCatalog, v.ID)
			}
		}
	}

	return nil
}
