package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCatalogFile writes data to filename inside a temp dir and returns its path.
func writeCatalogFile(t *testing.T, filename string, data []byte) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(filePath, data, 0o644))
	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{name: "json", filename: "catalog.json", data: []byte(jsonCatalog)},
		{name: "yaml", filename: "catalog.yaml", data: []byte(yamlCatalog)},
		{name: "gzipped json", filename: "catalog.json.gz", data: gzipBytes(t, jsonCatalog)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFileLoader(zerolog.Nop())
			filePath := writeCatalogFile(t, tt.filename, tt.data)

			c, err := loader.Load(context.Background(), filePath)

			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NotEmpty(t, c.Products)
			assert.Equal(t, "p1", c.Products[0].ID)
		})
	}
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	c, err := loader.Load(context.Background(), "/nonexistent/catalog.json")

	assert.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "failed to open catalog file")
}

func TestFileLoader_Load_InvalidContent(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := writeCatalogFile(t, "catalog.json", []byte(`{"products": [{"id": "p1"}]}`))

	c, err := loader.Load(context.Background(), filePath)

	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Nil(t, c)
}

func TestFileLoader_Load_ContextCancelled(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := writeCatalogFile(t, "catalog.json", []byte(jsonCatalog))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := loader.Load(ctx, filePath)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, c)
}
