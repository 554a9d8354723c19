package client

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/workspace"
	"github.com/terraconstructs/shopctl/internal/apitest"
	"github.com/terraconstructs/shopctl/internal/dispatch"
	"github.com/terraconstructs/shopctl/internal/kv"
	"github.com/terraconstructs/shopctl/internal/refs"
)

func newTestProvider(t *testing.T, serverURL string) (*Provider, string, *bytes.Buffer) {
	t.Helper()
	pterm.DisableStyling()
	dir := t.TempDir()
	var warnings bytes.Buffer
	p := NewProvider(Options{
		ServerURL:     serverURL,
		Store:         kv.Options{Driver: kv.DriverFile, Dir: filepath.Join(dir, "home")},
		WorkspacePath: filepath.Join(dir, workspace.FileName),
		Logger:        zerolog.Nop(),
		Warnings:      &warnings,
	})
	t.Cleanup(func() { _ = p.Close() })
	return p, dir, &warnings
}

func TestProvider_StatePersistsAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	api := apitest.New(t)
	p, dir, _ := newTestProvider(t, api.BaseURL())

	d, err := p.Dispatcher(ctx)
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, dispatch.OpLogin, dispatch.Input{Fields: map[string]string{"email": "vendor@example.com", "password": "pw"}})
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, dispatch.OpProductsCreate, dispatch.Input{Fields: map[string]string{"name": "Mug", "price": "4"}})
	require.NoError(t, err)
	require.NoError(t, p.Save())

	// A second provider on the same paths sees the session and the reference.
	next := NewProvider(Options{
		ServerURL:     api.BaseURL(),
		Store:         kv.Options{Driver: kv.DriverFile, Dir: filepath.Join(dir, "home")},
		WorkspacePath: filepath.Join(dir, workspace.FileName),
		Logger:        zerolog.Nop(),
	})
	store, err := next.Session(ctx)
	require.NoError(t, err)
	creds, ok := store.Credential()
	require.True(t, ok)
	assert.Equal(t, apitest.TokenFor("vendor"), creds.Token)

	id, ok := next.Workspace().Refs.Get(refs.KindProduct)
	require.True(t, ok)
	assert.NotEmpty(t, id)

	d2, err := next.Dispatcher(ctx)
	require.NoError(t, err)
	_, err = d2.Dispatch(ctx, dispatch.OpProductsGet, dispatch.Input{})
	require.NoError(t, err)
	last, _ := api.Last()
	assert.Equal(t, "/products/"+id, last.Path)
}

func TestProvider_CorruptWorkspaceStartsEmpty(t *testing.T) {
	p, dir, warnings := newTestProvider(t, "http://localhost:5000/api")
	require.NoError(t, os.WriteFile(filepath.Join(dir, workspace.FileName), []byte("{not json"), 0o600))

	state := p.Workspace()
	assert.Empty(t, state.Refs.Populated())
	assert.Len(t, state.Order.Items(), 1)
	assert.Contains(t, warnings.String(), "empty workspace")
}

func TestProvider_ServerMismatchWarns(t *testing.T) {
	p, dir, warnings := newTestProvider(t, "http://new/api")
	s := workspace.NewState()
	s.Refs.RecordCreated(refs.KindOrder, "ord_1")
	require.NoError(t, workspace.Write(filepath.Join(dir, workspace.FileName), workspace.Capture(s, "http://old/api", nil)))

	id, _ := p.Workspace().Refs.Get(refs.KindOrder)
	assert.Equal(t, "ord_1", id)
	assert.Contains(t, warnings.String(), "http://old/api")
}

func TestProvider_SaveWithoutUseWritesNothing(t *testing.T) {
	p, dir, _ := newTestProvider(t, "http://localhost:5000/api")
	require.NoError(t, p.Save())
	_, err := os.Stat(filepath.Join(dir, workspace.FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestProvider_ReadOnlyUseWritesNothing(t *testing.T) {
	ctx := context.Background()
	api := apitest.New(t)
	p, dir, _ := newTestProvider(t, api.BaseURL())
	path := filepath.Join(dir, workspace.FileName)

	d, err := p.Dispatcher(ctx)
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, dispatch.OpHealth, dispatch.Input{})
	require.NoError(t, err)
	require.NoError(t, p.Save())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "a read-only command must not create the workspace")

	_, err = d.Dispatch(ctx, dispatch.OpLogin, dispatch.Input{Fields: map[string]string{"email": "admin@example.com", "password": "pw"}})
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, dispatch.OpProductsCreate, dispatch.Input{Fields: map[string]string{"name": "Mug", "price": "4"}})
	require.NoError(t, err)
	require.NoError(t, p.Save())
	written, err := os.ReadFile(path)
	require.NoError(t, err)

	// A later process that only reads leaves the file byte-for-byte intact.
	next := NewProvider(Options{
		ServerURL:     api.BaseURL(),
		Store:         kv.Options{Driver: kv.DriverFile, Dir: filepath.Join(dir, "home")},
		WorkspacePath: path,
		Logger:        zerolog.Nop(),
	})
	d2, err := next.Dispatcher(ctx)
	require.NoError(t, err)
	_, err = d2.Dispatch(ctx, dispatch.OpProductsGet, dispatch.Input{})
	require.NoError(t, err)
	require.NoError(t, next.Save())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(written), string(after))
}

func TestProvider_BadBackend(t *testing.T) {
	p := NewProvider(Options{ServerURL: "http://x", Store: kv.Options{Driver: "sqlite"}, Logger: zerolog.Nop()})
	_, err := p.Dispatcher(context.Background())
	assert.Error(t, err)
}
