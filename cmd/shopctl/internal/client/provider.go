package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/workspace"
	"github.com/terraconstructs/shopctl/internal/dispatch"
	"github.com/terraconstructs/shopctl/internal/kv"
	"github.com/terraconstructs/shopctl/internal/session"
	"github.com/terraconstructs/shopctl/pkg/sdk"
)

// Options configures a Provider.
type Options struct {
	ServerURL string
	// Timeout bounds each HTTP exchange at the transport. Zero means none.
	Timeout time.Duration
	Store   kv.Options
	// WorkspacePath is the workspace file; empty disables persistence.
	WorkspacePath string
	Logger        zerolog.Logger
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
	// Warnings receives operator-facing warnings. Defaults to stderr.
	Warnings io.Writer
}

// Provider lazily builds the session, workspace state, SDK client and
// dispatcher a command needs, at most once per process.
type Provider struct {
	opts Options

	workspaceOnce sync.Once
	state         *workspace.State
	file          *workspace.File

	backendOnce sync.Once
	backend     kv.Store
	backendErr  error

	sessionOnce sync.Once
	session     *session.Store
	sessionErr  error

	sdkOnce   sync.Once
	sdkClient *sdk.Client

	dispatcherOnce sync.Once
	dispatcher     *dispatch.Dispatcher
	dispatcherErr  error
}

// NewProvider constructs a Provider. Nothing is opened until first use.
func NewProvider(opts Options) *Provider {
	if opts.Warnings == nil {
		opts.Warnings = os.Stderr
	}
	return &Provider{opts: opts}
}

// ServerURL returns the API root commands talk to.
func (p *Provider) ServerURL() string {
	return p.opts.ServerURL
}

// Workspace returns the entity references and drafts, loaded from the
// workspace file on first use. A corrupt file is reported and ignored.
func (p *Provider) Workspace() *workspace.State {
	p.workspaceOnce.Do(func() {
		p.state = workspace.NewState()
		if p.opts.WorkspacePath == "" {
			return
		}

		file, err := workspace.Read(p.opts.WorkspacePath)
		if err != nil {
			pterm.Warning.WithWriter(p.opts.Warnings).Printf("Warning: %v; starting with an empty workspace\n", err)
			return
		}
		if file == nil {
			return
		}
		if file.ServerURL != "" && file.ServerURL != p.opts.ServerURL {
			pterm.Warning.WithWriter(p.opts.Warnings).Printf("Workspace references were recorded against %s\n", file.ServerURL)
		}
		for _, note := range file.Apply(p.state) {
			pterm.Warning.WithWriter(p.opts.Warnings).Println(note)
		}
		p.file = file
		p.opts.Logger.Debug().Str("path", p.opts.WorkspacePath).Msg("workspace loaded")
	})
	return p.state
}

// Backend returns the durable key/value store holding the credential.
func (p *Provider) Backend(ctx context.Context) (kv.Store, error) {
	p.backendOnce.Do(func() {
		p.backend, p.backendErr = kv.Open(ctx, p.opts.Store)
		if p.backendErr != nil {
			p.backendErr = fmt.Errorf("failed to open session backend: %w", p.backendErr)
		}
	})
	return p.backend, p.backendErr
}

// Session returns the session store hydrated from the backend.
func (p *Provider) Session(ctx context.Context) (*session.Store, error) {
	p.sessionOnce.Do(func() {
		backend, err := p.Backend(ctx)
		if err != nil {
			p.sessionErr = err
			return
		}
		p.session = session.New(ctx, backend, p.opts.Logger)
	})
	return p.session, p.sessionErr
}

// SDKClient returns the HTTP client for the configured server.
func (p *Provider) SDKClient() *sdk.Client {
	p.sdkOnce.Do(func() {
		httpClient := p.opts.HTTPClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: p.opts.Timeout}
		}
		p.sdkClient = sdk.NewClient(p.opts.ServerURL,
			sdk.WithHTTPClient(httpClient),
			sdk.WithLogger(p.opts.Logger),
		)
	})
	return p.sdkClient
}

// Dispatcher returns the dispatcher wired to the session, workspace state
// and SDK client.
func (p *Provider) Dispatcher(ctx context.Context) (*dispatch.Dispatcher, error) {
	p.dispatcherOnce.Do(func() {
		store, err := p.Session(ctx)
		if err != nil {
			p.dispatcherErr = err
			return
		}
		state := p.Workspace()
		p.dispatcher = dispatch.New(dispatch.Deps{
			Client:  p.SDKClient(),
			Session: store,
			Refs:    state.Refs,
			Order:   state.Order,
			Payment: state.Payment,
			Profile: state.Profile,
			Logger:  p.opts.Logger,
		})
	})
	return p.dispatcher, p.dispatcherErr
}

// Save writes the workspace back when this process changed it. Commands
// that only read the workspace leave the file untouched.
func (p *Provider) Save() error {
	if p.state == nil || p.opts.WorkspacePath == "" {
		return nil
	}
	next := workspace.Capture(p.state, p.opts.ServerURL, p.file)
	baseline := p.file
	if baseline == nil {
		baseline = workspace.Capture(workspace.NewState(), p.opts.ServerURL, nil)
	}
	if next.SameContent(baseline) {
		return nil
	}
	if err := workspace.Write(p.opts.WorkspacePath, next); err != nil {
		return err
	}
	p.file = next
	p.opts.Logger.Debug().Str("path", p.opts.WorkspacePath).Msg("workspace saved")
	return nil
}

// Close releases the session backend.
func (p *Provider) Close() error {
	if closer, ok := p.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
