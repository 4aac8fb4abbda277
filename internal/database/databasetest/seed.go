// Package databasetest seeds PostgreSQL databases for tests.
package databasetest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SeedSampleSchema creates a small order-management schema with primary, unique,
// single-column and composite foreign keys. It is used to exercise the PostgreSQL
// warehouse end to end.
func SeedSampleSchema(ctx context.Context, db *sql.DB, schema string, logger *zap.Logger) error {
	s := pgx.Identifier{schema}.Sanitize()

	migrations := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, s),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s.customers (
  id BIGINT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT
)`, s),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s.orders (
  id BIGINT PRIMARY KEY,
  customer_id BIGINT NOT NULL REFERENCES %s.customers (id),
  placed_at TIMESTAMP WITHOUT TIME ZONE NOT NULL DEFAULT now()
)`, s, s),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s.products (
  sku VARCHAR(32) NOT NULL,
  variant INTEGER NOT NULL,
  title CHARACTER VARYING(200),
  PRIMARY KEY (sku, variant)
)`, s),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s.order_items (
  order_id BIGINT NOT NULL REFERENCES %s.orders (id),
  sku VARCHAR(32) NOT NULL,
  variant INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  PRIMARY KEY (order_id, sku, variant),
  CONSTRAINT order_items_product_fk FOREIGN KEY (sku, variant) REFERENCES %s.products (sku, variant)
)`, s, s, s),
	}

	for i, migration := range migrations {
		logger.Debug("Running sample schema migration", zap.Int("step", i+1), zap.Int("total", len(migrations)))
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	logger.Info("Sample schema ready", zap.String("schema", schema))
	return nil
}
