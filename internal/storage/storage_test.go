package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront/internal/config"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func backendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "guest-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set(ctx, "guest-storage", []byte(`{"guest_id":"20240101ABCDEFGH"}`)))
	got, err := b.Get(ctx, "guest-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"guest_id":"20240101ABCDEFGH"}`, string(got))

	require.NoError(t, b.Set(ctx, "guest-storage", []byte(`{}`)))
	got, err = b.Get(ctx, "guest-storage")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	require.NoError(t, b.Delete(ctx, "guest-storage"))
	_, err = b.Get(ctx, "guest-storage")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, b.Delete(ctx, "never-set"), "deleting a missing key is not an error")

	for _, key := range []string{"", "../escape", "a/b", `a\b`} {
		assert.Error(t, b.Set(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestMemoryBackend(t *testing.T) {
	backendContract(t, NewMemoryBackend())
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	value := []byte("abc")
	require.NoError(t, b.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	backendContract(t, b)
}

func TestFileBackend_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileBackend(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "auth-storage", []byte(`{"token":"t"}`)))

	second, err := NewFileBackend(dir, zerolog.Nop())
	require.NoError(t, err)
	got, err := second.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"token":"t"}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "auth-storage.json", entries[0].Name())
}

func TestFileBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	_, err := NewFileBackend(dir, zerolog.Nop())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileBackend_CancelledContext(t *testing.T) {
	b, err := NewFileBackend(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Set(ctx, "k", []byte("v")), context.Canceled)
}

// mockS3 is a testify mock of the S3 client subset.
type mockS3 struct {
	mock.Mock
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func TestS3Backend_Get(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	b := newS3Backend(client, "bucket", "storefront/", zerolog.Nop())

	client.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Bucket == "bucket" && *in.Key == "storefront/guest-storage.json"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(`{"guest_id":"X"}`))}, nil).Once()

	got, err := b.Get(ctx, "guest-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"guest_id":"X"}`, string(got))
	client.AssertExpectations(t)
}

func TestS3Backend_GetMissing(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	b := newS3Backend(client, "bucket", "", zerolog.Nop())

	client.On("GetObject", ctx, mock.Anything).Return(nil, &types.NoSuchKey{}).Once()

	_, err := b.Get(ctx, "auth-storage")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Backend_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	b := newS3Backend(client, "bucket", "p/", zerolog.Nop())

	client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return *in.Key == "p/cart-store.json" && string(body) == `[]`
	})).Return(&s3.PutObjectOutput{}, nil).Once()
	client.On("DeleteObject", ctx, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "p/cart-store.json"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()

	require.NoError(t, b.Set(ctx, "cart-store", []byte(`[]`)))
	require.NoError(t, b.Delete(ctx, "cart-store"))
	client.AssertExpectations(t)
}

func TestS3Backend_PutError(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	b := newS3Backend(client, "bucket", "", zerolog.Nop())

	client.On("PutObject", ctx, mock.Anything).Return(nil, errors.New("access denied")).Once()

	err := b.Set(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put object to S3")
}

// failingBackend fails every call.
type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingBackend) Set(context.Context, string, []byte) error {
	return errors.New("connection refused")
}
func (failingBackend) Delete(context.Context, string) error { return errors.New("connection refused") }

func TestFallbackBackend_PrimaryWins(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryBackend()
	local := NewMemoryBackend()
	require.NoError(t, primary.Set(ctx, "k", []byte("remote")))
	require.NoError(t, local.Set(ctx, "k", []byte("local")))

	b := NewFallbackBackend(primary, local, true, zerolog.Nop())
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "remote", string(got))
}

func TestFallbackBackend_PrimaryFailsFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryBackend()
	b := NewFallbackBackend(failingBackend{}, local, true, zerolog.Nop())

	require.NoError(t, b.Set(ctx, "k", []byte("v")), "a failed primary write is tolerated")

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	require.NoError(t, b.Delete(ctx, "k"))
	_, err = local.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackBackend_MirrorsWrites(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryBackend()
	local := NewMemoryBackend()
	b := NewFallbackBackend(primary, local, true, zerolog.Nop())

	require.NoError(t, b.Set(ctx, "k", []byte("v")))

	for _, backend := range []Backend{primary, local} {
		got, err := backend.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", string(got))
	}
}

func TestFallbackBackend_PrimaryDisabled(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryBackend()
	local := NewMemoryBackend()
	b := NewFallbackBackend(primary, local, false, zerolog.Nop())

	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	_, err := primary.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound, "disabled primary is never written")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		cfg := &config.Config{State: config.StateConfig{Backend: config.BackendMemory}}
		b, closeFn, err := Open(ctx, cfg, zerolog.Nop())
		require.NoError(t, err)
		defer closeFn()
		backendContract(t, b)
	})

	t.Run("File", func(t *testing.T) {
		cfg := &config.Config{State: config.StateConfig{Backend: config.BackendFile, Dir: t.TempDir()}}
		b, closeFn, err := Open(ctx, cfg, zerolog.Nop())
		require.NoError(t, err)
		defer closeFn()
		backendContract(t, b)
	})

	t.Run("Unknown", func(t *testing.T) {
		cfg := &config.Config{State: config.StateConfig{Backend: "redis"}}
		_, closeFn, err := Open(ctx, cfg, zerolog.Nop())
		require.Error(t, err)
		assert.NotNil(t, closeFn)
	})
}
