package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraconstructs/shopctl/internal/kv"
	"github.com/terraconstructs/shopctl/pkg/sdk"
)

type failingStore struct {
	kv.Store
	err error
}

func (f failingStore) Put(context.Context, string, string) error { return f.err }
func (f failingStore) Get(context.Context, string) (string, error) {
	return "", f.err
}

func TestNew_EmptyBackendIsAnonymous(t *testing.T) {
	s := New(context.Background(), kv.NewMemory(), zerolog.Nop())
	_, ok := s.Credential()
	assert.False(t, ok)
}

func TestSetCredential_PersistsExactValues(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(ctx, backend, zerolog.Nop())

	require.NoError(t, s.SetCredential(ctx, "tok-1", sdk.RoleVendor))

	creds, ok := s.Credential()
	require.True(t, ok)
	assert.Equal(t, sdk.Credentials{Token: "tok-1", Role: sdk.RoleVendor}, creds)

	token, err := backend.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	role, err := backend.Get(ctx, RoleKey)
	require.NoError(t, err)
	assert.Equal(t, "vendor", role)

	// Overwrite.
	require.NoError(t, s.SetCredential(ctx, "tok-2", sdk.RoleAdmin))
	creds, _ = s.Credential()
	assert.Equal(t, "tok-2", creds.Token)
	assert.Equal(t, sdk.RoleAdmin, creds.Role)
}

func TestSetCredential_RejectsEmptyToken(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, kv.NewMemory(), zerolog.Nop())
	assert.Error(t, s.SetCredential(ctx, "", sdk.RoleAdmin))
	_, ok := s.Credential()
	assert.False(t, ok)
}

func TestSetCredential_RejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(ctx, backend, zerolog.Nop())
	require.NoError(t, s.SetCredential(ctx, "tok-1", sdk.RoleCustomer))

	assert.Error(t, s.SetCredential(ctx, "tok-2", sdk.Role("superuser")))
	creds, ok := s.Credential()
	require.True(t, ok)
	assert.Equal(t, sdk.Credentials{Token: "tok-1", Role: sdk.RoleCustomer}, creds)

	stored, err := backend.Get(ctx, RoleKey)
	require.NoError(t, err)
	assert.Equal(t, "customer", stored)
}

func TestSetCredential_BackendFailureStillSetsMemory(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, failingStore{Store: kv.NewMemory(), err: errors.New("disk full")}, zerolog.Nop())

	err := s.SetCredential(ctx, "tok", sdk.RoleCustomer)
	assert.ErrorContains(t, err, "disk full")
	creds, ok := s.Credential()
	assert.True(t, ok)
	assert.Equal(t, "tok", creds.Token)
}

func TestClearCredential_IdempotentAndDurable(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(ctx, backend, zerolog.Nop())

	require.NoError(t, s.ClearCredential(ctx), "clearing an empty session is a no-op")

	require.NoError(t, s.SetCredential(ctx, "tok", sdk.RoleAdmin))
	require.NoError(t, s.ClearCredential(ctx))
	require.NoError(t, s.ClearCredential(ctx))

	_, ok := s.Credential()
	assert.False(t, ok)
	_, err := backend.Get(ctx, TokenKey)
	assert.True(t, errors.Is(err, kv.ErrNotFound))
	_, err = backend.Get(ctx, RoleKey)
	assert.True(t, errors.Is(err, kv.ErrNotFound))
}

func TestNew_HydratesAcrossRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	first := New(ctx, backend, zerolog.Nop())
	require.NoError(t, first.SetCredential(ctx, "persisted-token", sdk.RoleCustomer))

	reopened, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	second := New(ctx, reopened, zerolog.Nop())
	creds, ok := second.Credential()
	require.True(t, ok)
	assert.Equal(t, sdk.Credentials{Token: "persisted-token", Role: sdk.RoleCustomer}, creds)
}

func TestNew_MalformedContentStartsAnonymous(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{{{"), 0600))
		backend, err := kv.NewFileStore(dir)
		require.NoError(t, err)
		_, ok := New(ctx, backend, zerolog.Nop()).Credential()
		assert.False(t, ok)
	})

	t.Run("token without role", func(t *testing.T) {
		backend := kv.NewMemory()
		require.NoError(t, backend.Put(ctx, TokenKey, "tok"))
		_, ok := New(ctx, backend, zerolog.Nop()).Credential()
		assert.False(t, ok)
	})

	t.Run("unknown role", func(t *testing.T) {
		backend := kv.NewMemory()
		require.NoError(t, backend.Put(ctx, TokenKey, "tok"))
		require.NoError(t, backend.Put(ctx, RoleKey, "root"))
		_, ok := New(ctx, backend, zerolog.Nop()).Credential()
		assert.False(t, ok)
	})

	t.Run("empty token", func(t *testing.T) {
		backend := kv.NewMemory()
		require.NoError(t, backend.Put(ctx, TokenKey, ""))
		require.NoError(t, backend.Put(ctx, RoleKey, "admin"))
		_, ok := New(ctx, backend, zerolog.Nop()).Credential()
		assert.False(t, ok)
	})

	t.Run("backend error", func(t *testing.T) {
		backend := failingStore{Store: kv.NewMemory(), err: errors.New("connection refused")}
		_, ok := New(ctx, backend, zerolog.Nop()).Credential()
		assert.False(t, ok)
	})
}
