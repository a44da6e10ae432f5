package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const fileExt = ".json"

// fileBackend stores each key as its own file in a directory.
type fileBackend struct {
	dir    string
	logger zerolog.Logger
}

// NewFileBackend creates a backend rooted at dir, creating it if needed.
func NewFileBackend(dir string, logger zerolog.Logger) (Backend, error) {
	logger = logger.With().Str("component", "file-storage").Logger()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("failed to create state directory")
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	logger.Debug().Str("dir", dir).Msg("file storage initialised")

	return &fileBackend{dir: dir, logger: logger}, nil
}

func (b *fileBackend) path(key string) string {
	return filepath.Join(b.dir, key+fileExt)
}

// Get reads the file for key.
func (b *fileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		b.logger.Error().Err(err).Str("key", key).Msg("failed to read state file")
		return nil, fmt.Errorf("failed to read state file for %s: %w", key, err)
	}

	return data, nil
}

// Set writes value to a temporary file and renames it into place so a crash
// never leaves a half-written record behind.
func (b *fileBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state file for %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close state file for %s: %w", key, err)
	}

	if err := os.Rename(tmpName, b.path(key)); err != nil {
		os.Remove(tmpName)
		b.logger.Error().Err(err).Str("key", key).Msg("failed to replace state file")
		return fmt.Errorf("failed to replace state file for %s: %w", key, err)
	}

	b.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("state saved")

	return nil
}

// Delete removes the file for key.
func (b *fileBackend) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(b.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete state file for %s: %w", key, err)
	}
	return nil
}
