package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // optional .env for local development

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	products, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info().Int("products", len(products.Products)).Msg("catalog loaded")

	productRepo := repository.NewProductRepository(products, logger)
	orderRepo := repository.NewOrderRepository(store, logger)

	var opts []service.Option
	if !cfg.Latency.Enabled {
		opts = append(opts, service.WithSleeper(service.NoDelay))
		logger.Info().Msg("simulated latency disabled")
	}
	client := service.NewMockClient(productRepo, orderRepo, logger, opts...)

	carts := cart.NewRegistry(store, logger, cart.WithIdleTimeout(cfg.Cart.IdleTimeout()))

	productHandler := handler.NewProductHandler(client, logger)
	cartHandler := handler.NewCartHandler(carts, client, logger)
	orderHandler := handler.NewOrderHandler(carts, client, logger)

	mux := router.New(productHandler, cartHandler, orderHandler, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("storage", cfg.Storage.Backend).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// Carts are flushed after the last request has drained.
		carts.Close(shutdownCtx)

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadCatalog reads the catalogue from S3 or disk when a path is configured
// and falls back to the embedded catalogue otherwise.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger zerolog.Logger) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		logger.Info().Msg("using embedded catalog")
		return catalog.Default()
	}

	fileLoader := catalog.NewFileLoader(logger)
	var s3Loader catalog.Loader

	if cfg.S3.Enabled {
		l, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for catalog (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, s3Loader != nil, logger)
	return loader.Load(ctx, cfg.Path)
}
