// Package postgres provides PostgreSQL-based storage implementations for
// olxgpu services.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB represents a PostgreSQL connection pool.
type DB struct {
	pool   *pgxpool.Pool
	dsn    string
	schema string
}

// Option configures a DB.
type Option func(*DB)

// WithSchema places all tables in the named schema, creating it if needed.
func WithSchema(name string) Option {
	return func(db *DB) {
		db.schema = name
	}
}

// NewDB creates a new DB instance for the given connection string.
func NewDB(dsn string, opts ...Option) *DB {
	db := &DB{dsn: dsn}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open connects to the database and creates the schema if needed.
func (db *DB) Open(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(db.dsn)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if db.schema != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = db.schema
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.pool = pool

	if err := db.createSchema(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes all connections in the pool.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// DropSchema removes the schema set with WithSchema and everything in it.
func (db *DB) DropSchema(ctx context.Context) error {
	if db.schema == "" {
		return nil
	}
	_, err := db.pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{db.schema}.Sanitize()+" CASCADE")
	return err
}

func (db *DB) createSchema(ctx context.Context) error {
	if db.schema != "" {
		if _, err := db.pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{db.schema}.Sanitize()); err != nil {
			return err
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			base_url TEXT NOT NULL,
			page_limit INTEGER NOT NULL,
			pages_visited INTEGER NOT NULL DEFAULT 0,
			listings INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failures INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS listings (
			id BIGSERIAL PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			price INTEGER,
			state TEXT NOT NULL,
			raw_title TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			fingerprint TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_listings_run_id ON listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_listings_model ON listings(model);
		CREATE INDEX IF NOT EXISTS idx_listings_fingerprint ON listings(fingerprint);
	`

	_, err := db.pool.Exec(ctx, schema)
	return err
}
