package database

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// NewMySQL opens and verifies a MySQL connection.
func NewMySQL(ctx context.Context, cfg config.MySQLConfig, logger zerolog.Logger) (*sqlx.DB, error) {
	logger.Info().
		Int("max_connections", cfg.MaxConnections).
		Msg("connecting to MySQL")

	db, err := sqlx.ConnectContext(ctx, "mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info().Msg("MySQL connection established")

	return db, nil
}
