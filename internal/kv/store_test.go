package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the contract every backend must satisfy.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "token")
	assert.True(t, errors.Is(err, ErrNotFound), "missing key should be ErrNotFound, got %v", err)

	require.NoError(t, s.Put(ctx, "token", "abc"))
	require.NoError(t, s.Put(ctx, "userRole", "vendor"))

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Put(ctx, "token", "def"))
	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, s.Remove(ctx, "token"))
	require.NoError(t, s.Remove(ctx, "token"), "remove must be idempotent")
	_, err = s.Get(ctx, "token")
	assert.True(t, errors.Is(err, ErrNotFound))

	v, err = s.Get(ctx, "userRole")
	require.NoError(t, err)
	assert.Equal(t, "vendor", v)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_PermissionsAndCleanup(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "token", "abc"))
	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, s.Remove(ctx, "token"))
	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "file should be removed once empty")
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "token", "persisted"))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	v, err := second.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "persisted", v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0600))
	ctx := context.Background()

	_, err = s.Get(ctx, "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	// Remove clears corrupt content instead of failing.
	require.NoError(t, s.Remove(ctx, "token"))
	_, err = s.Get(ctx, "token")
	assert.True(t, errors.Is(err, ErrNotFound))

	// Put overwrites corrupt content.
	require.NoError(t, os.WriteFile(s.Path(), []byte("garbage"), 0600))
	require.NoError(t, s.Put(ctx, "token", "fresh"))
	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Driver: DriverRedis})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.ErrorContains(t, err, "unknown session backend")
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SHOPCTL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHOPCTL_TEST_REDIS_ADDR not set")
	}
	s, err := ConnectRedis(context.Background(), RedisConfig{Addr: addr, Prefix: "shopctl-test-" + t.Name()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}
