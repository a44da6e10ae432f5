package storage

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/rs/zerolog"
)

// Open builds the backend selected by cfg.State.Backend. The returned close
// function releases any connections and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Backend, func(), error) {
	noop := func() {}

	switch cfg.State.Backend {
	case config.BackendMemory:
		return NewMemoryBackend(), noop, nil

	case config.BackendFile:
		b, err := NewFileBackend(cfg.State.Dir, logger)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open state database: %w", err)
		}
		b, err := NewPostgresBackend(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return b, pool.Close, nil

	case config.BackendS3:
		local, err := NewFileBackend(cfg.State.Dir, logger)
		if err != nil {
			return nil, noop, err
		}
		remote, err := NewS3Backend(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("S3 storage unavailable, using local state only")
			return NewFallbackBackend(nil, local, false, logger), noop, nil
		}
		return NewFallbackBackend(remote, local, true, logger), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown state backend: %s", cfg.State.Backend)
	}
}
