package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the table used by the Postgres backend.
const Schema = `
	CREATE TABLE IF NOT EXISTS storefront_state (
		key VARCHAR(255) PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// postgresBackend stores state rows in a shared database so that several
// kiosks can share one profile.
type postgresBackend struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresBackend creates a Postgres-backed store and ensures its table exists.
func NewPostgresBackend(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (Backend, error) {
	logger = logger.With().Str("component", "postgres-storage").Logger()

	if _, err := pool.Exec(ctx, Schema); err != nil {
		logger.Error().Err(err).Msg("failed to create state table")
		return nil, fmt.Errorf("failed to create state table: %w", err)
	}

	return &postgresBackend{pool: pool, logger: logger}, nil
}

func (b *postgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	query := `SELECT value FROM storefront_state WHERE key = $1`

	var value []byte
	err := b.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		b.logger.Error().Err(err).Str("key", key).Msg("failed to query state")
		return nil, fmt.Errorf("failed to query state %s: %w", key, err)
	}

	return value, nil
}

func (b *postgresBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	query := `
		INSERT INTO storefront_state (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := b.pool.Exec(ctx, query, key, value); err != nil {
		b.logger.Error().Err(err).Str("key", key).Msg("failed to upsert state")
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}

	b.logger.Debug().Str("key", key).Msg("state saved")

	return nil
}

func (b *postgresBackend) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if _, err := b.pool.Exec(ctx, `DELETE FROM storefront_state WHERE key = $1`, key); err != nil {
		b.logger.Error().Err(err).Str("key", key).Msg("failed to delete state")
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}
