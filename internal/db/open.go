// Package db opens the configured post store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"Vistagram/internal/config"
	"Vistagram/internal/core/posts"
	"Vistagram/internal/db/migrations"
	"Vistagram/internal/db/postgres"
	"Vistagram/internal/db/sqlite"
)

// Open connects to the database selected by cfg, applies pending migrations
// and returns the matching post repository. The caller owns the *sql.DB.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, posts.Repository, error) {
	var (
		conn    *sql.DB
		err     error
		dialect string
	)

	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		conn, err = sqlite.Open(ctx, cfg.DatabaseURL)
		dialect = migrations.SQLite
	case config.DriverPostgres:
		conn, err = postgres.Open(ctx, cfg.DatabaseURL)
		dialect = migrations.Postgres
	default:
		return nil, nil, fmt.Errorf("%w: got %q", config.ErrInvalidDriver, cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	slog.Info("connected to database", "driver", cfg.DatabaseDriver)

	if err := migrations.Up(ctx, conn, dialect); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if dialect == migrations.SQLite {
		return conn, sqlite.NewPostRepository(conn), nil
	}
	return conn, postgres.NewPostRepository(conn), nil
}
