package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "test-api-key"

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Store     *storage.PostgresStore
	ConnStr   string
}

// SetupTestDB starts a PostgreSQL container and returns a key-value store on it.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPoolFromConnString(ctx, connStr, dbConfig, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	store := storage.NewPostgresStore(pool, zerolog.Nop())
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		Store:     store,
		ConnStr:   connStr,
	}
}

// CleanupDB removes every stored entry.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM kv_entries"); err != nil {
		t.Logf("failed to clean kv_entries: %v", err)
	}
}

// setupTestServer builds the full HTTP stack on the embedded catalogue and the
// given store, with simulated latency switched off.
func setupTestServer(t *testing.T, store storage.Store) (http.Handler, *cart.Registry) {
	t.Helper()

	logger := zerolog.Nop()

	products, err := catalog.Default()
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(products, logger)
	orderRepo := repository.NewOrderRepository(store, logger)
	client := service.NewMockClient(productRepo, orderRepo, logger, service.WithSleeper(service.NoDelay))
	carts := cart.NewRegistry(store, logger)

	productHandler := handler.NewProductHandler(client, logger)
	cartHandler := handler.NewCartHandler(carts, client, logger)
	orderHandler := handler.NewOrderHandler(carts, client, logger)

	return router.New(productHandler, cartHandler, orderHandler, testAPIKey, logger), carts
}
