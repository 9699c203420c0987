//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"storefront/internal/catalog"

	"github.com/shopspring/decimal"
)

// export_catalog writes the embedded catalogue as a gzipped JSON file that can
// be uploaded to S3 or pointed at with CATALOG_PATH.
func main() {
	decimal.MarshalJSONWithoutQuotes = true

	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	c, err := catalog.Default()
	if err != nil {
		log.Fatalf("Failed to load embedded catalog: %v", err)
	}

	filePath := filepath.Join(dataDir, "catalog.json.gz")
	if err := writeCatalogFile(filePath, c); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(c.Products))
}

func writeCatalogFile(filePath string, c *catalog.Catalog) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	enc := json.NewEncoder(gzWriter)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
