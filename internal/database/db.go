package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// ParseConfig parses a PostgreSQL connection string (URL or key/value form).
func ParseConfig(dsn string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	return cfg, nil
}

// Open creates a database/sql pool on top of the pgx driver and verifies it with a ping.
func Open(ctx context.Context, cfg *pgx.ConnConfig, maxConns int, logger *zap.Logger) (*sql.DB, error) {
	logger.Info("Connecting to database",
		zap.String("host", cfg.Host),
		zap.Uint16("port", cfg.Port),
		zap.String("user", cfg.User),
		zap.String("database", cfg.Database),
	)

	db := stdlib.OpenDB(*cfg)

	if maxConns <= 0 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Debug("Database connection pool established")
	return db, nil
}
