//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// check_storage round-trips a value through the configured storage backend.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg, zerolog.New(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s storage: %v\n", cfg.Storage.Backend, err)
		os.Exit(1)
	}
	defer store.Close()

	const key = "storefront:healthcheck"
	if err := store.Set(ctx, key, []byte(`"ok"`)); err != nil {
		fmt.Fprintf(os.Stderr, "Set failed: %v\n", err)
		os.Exit(1)
	}

	value, err := store.Get(ctx, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
		os.Exit(1)
	}

	if err := store.Delete(ctx, key); err != nil {
		fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully round-tripped %s through %s storage\n", value, cfg.Storage.Backend)
}
