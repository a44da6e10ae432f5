package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// fallbackBackend prefers a remote primary and keeps a local mirror that is
// used whenever the primary is disabled or unreachable.
type fallbackBackend struct {
	primary        Backend
	local          Backend
	primaryEnabled bool
	logger         zerolog.Logger
}

// NewFallbackBackend creates a backend that reads from primary first and falls
// back to local. Writes always reach local; a failed primary write is logged
// and tolerated. If primary is nil only local is used.
func NewFallbackBackend(primary, local Backend, primaryEnabled bool, logger zerolog.Logger) Backend {
	return &fallbackBackend{
		primary:        primary,
		local:          local,
		primaryEnabled: primaryEnabled,
		logger:         logger.With().Str("component", "fallback-storage").Logger(),
	}
}

func (b *fallbackBackend) usePrimary() bool {
	return b.primaryEnabled && b.primary != nil
}

func (b *fallbackBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if b.usePrimary() {
		value, err := b.primary.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			b.logger.Warn().
				Err(err).
				Str("key", key).
				Msg("failed to read from primary storage, falling back to local")
		}
	}

	return b.local.Get(ctx, key)
}

func (b *fallbackBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.local.Set(ctx, key, value); err != nil {
		return err
	}

	if b.usePrimary() {
		if err := b.primary.Set(ctx, key, value); err != nil {
			b.logger.Warn().
				Err(err).
				Str("key", key).
				Msg("failed to write to primary storage, kept local copy only")
		}
	}

	return nil
}

func (b *fallbackBackend) Delete(ctx context.Context, key string) error {
	if b.usePrimary() {
		if err := b.primary.Delete(ctx, key); err != nil {
			b.logger.Warn().
				Err(err).
				Str("key", key).
				Msg("failed to delete from primary storage")
		}
	}

	return b.local.Delete(ctx, key)
}
