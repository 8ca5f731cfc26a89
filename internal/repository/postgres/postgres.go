package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
)

// defaultQueryTimeout bounds a single query when no timeout was configured.
const defaultQueryTimeout = 5 * time.Second

// Repository is the narrow persistence gateway consumed by the evaluation
// job and the toggle endpoint. It holds the database handle and a logger.
type Repository struct {
	db           *sql.DB
	log          *slog.Logger
	queryTimeout time.Duration
}

// NewRepository opens a connection pool to Postgres, verifies connectivity
// and applies the idempotent schema migration. It returns a pointer to the
// newly created Repository.
func NewRepository(ctx context.Context, log *slog.Logger, dsn string, queryTimeout time.Duration) (*Repository, error) {
	dtb, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Check if the connection is actually established.
	if err = dtb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to establish connection to database: %w", err)
	}

	if err = initSchema(ctx, dtb); err != nil {
		return nil, fmt.Errorf("DB schema initialization error: %w", err)
	}

	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}

	return &Repository{db: dtb, log: log, queryTimeout: queryTimeout}, nil
}

// NewForTest wraps an existing database handle, bypassing connectivity checks
// and schema migration. Intended for sqlmock-backed unit tests.
func NewForTest(dtb *sql.DB) *Repository {
	return &Repository{db: dtb, log: slog.Default(), queryTimeout: defaultQueryTimeout}
}

// initSchema creates the necessary tables if they don't already exist.
func initSchema(ctx context.Context, dtb *sql.DB) error {
	const migrationQuery = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		manufacturer TEXT,
		presentation TEXT,
		pharmacy TEXT,
		url TEXT,
		image_url TEXT
	);

	CREATE TABLE IF NOT EXISTS price_history (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products (id),
		current_price NUMERIC(12,2) NOT NULL,
		normal_price NUMERIC(12,2),
		observed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_price_history_product_observed
		ON price_history (product_id, observed_at DESC);

	CREATE TABLE IF NOT EXISTS alerts (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products (id),
		user_id BIGINT NOT NULL REFERENCES users (id),
		armed_price NUMERIC(12,2) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		notified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, product_id)
	);
	`
	_, err := dtb.ExecContext(ctx, migrationQuery)
	if err != nil {
		return fmt.Errorf("failed to execute migration query: %w", err)
	}

	return nil
}

// queryCtx derives a per-query timeout context so a slow store surfaces as a
// query failure instead of hanging the whole run.
func (r *Repository) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

// Ping verifies the database connection is still alive.
func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("repository.postgres.Ping: %w", err)
	}

	return nil
}

// Close closes the connection to the database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close the database", "op", "repository.postgres.Close", "error", err)
		return fmt.Errorf("failed to close the database: %w", err)
	}

	return nil
}

// DB is a getter for the database handle.
func (r *Repository) DB() *sql.DB {
	return r.db
}
