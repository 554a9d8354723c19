package cmd

import (
	"context"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/analytics"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/auth"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/orders"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/payments"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/products"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/refs"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/resources"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/reviews"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/services"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/tracking"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/users"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/client"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/config"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/output"
	"github.com/terraconstructs/shopctl/internal/dispatch"
	"github.com/terraconstructs/shopctl/pkg/logger"
)

// rootFlags override the environment configuration when set.
type rootFlags struct {
	serverURL      string
	logLevel       string
	sessionBackend string
	sessionDir     string
	workspace      string
	output         string
}

// app carries the state shared between the root hooks and Run.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	flags    rootFlags
	printer  *output.Printer
	provider *client.Provider
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shopctl",
		Short: "shopctl - commerce API client",
		Long: `shopctl is an operator client for exploring a commerce REST API: accounts,
catalog, orders, payments, tracking, reviews and analytics.

It remembers the session credential and the IDs of the entities you create, so
follow-up commands can act on "the current product" or "the current order".`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.provider.Save()
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.serverURL, "server", "", "API base URL (env SHOPCTL_SERVER, default http://localhost:5000/api)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (env SHOPCTL_LOG_LEVEL)")
	pf.StringVar(&a.flags.sessionBackend, "session-backend", "", "Credential storage: file, memory or redis (env SHOPCTL_SESSION_BACKEND)")
	pf.StringVar(&a.flags.sessionDir, "session-dir", "", "Directory of the file credential store (env SHOPCTL_SESSION_DIR, default ~/.shopctl)")
	pf.StringVar(&a.flags.workspace, "workspace", "", "Workspace file holding current references and drafts (env SHOPCTL_WORKSPACE)")
	pf.StringVarP(&a.flags.output, "output", "o", "", "Response format: pretty or json (env SHOPCTL_OUTPUT)")

	rootCmd.AddCommand(
		auth.NewCommand(),
		users.NewCommand(),
		products.NewCommand(),
		services.NewCommand(),
		resources.NewCommand(),
		orders.NewCommand(),
		payments.NewCommand(),
		tracking.NewCommand(),
		reviews.NewCommand(),
		analytics.NewCommand(),
		refs.NewCommand(),
		cmdutil.Operation(dispatch.OpHealth),
		cmdutil.Operation(dispatch.OpSearch, cmdutil.WithPositional("q")),
		newOpsCmd(),
	)
	return rootCmd
}

// setup loads configuration, applies flag overrides and injects the shared
// state into the command context.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: a.stderr})

	format, _ := output.ParseFormat(cfg.Output)
	a.printer = &output.Printer{Out: a.stdout, Err: a.stderr, Format: format}

	opts := cfg.ProviderOptions(log)
	opts.Warnings = a.stderr
	a.provider = client.NewProvider(opts)

	cmd.SetContext(config.InjectConfig(cmd.Context(), &config.GlobalConfig{
		Config:         cfg,
		ClientProvider: a.provider,
		Printer:        a.printer,
	}))
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	pf := cmd.Flags()
	if pf.Changed("server") {
		cfg.ServerURL = a.flags.serverURL
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if pf.Changed("session-backend") {
		cfg.Session.Backend = a.flags.sessionBackend
	}
	if pf.Changed("session-dir") {
		cfg.Session.Dir = a.flags.sessionDir
	}
	if pf.Changed("workspace") {
		cfg.Workspace = a.flags.workspace
	}
	if pf.Changed("output") {
		cfg.Output = a.flags.output
	}
}

// Run executes shopctl with args and returns the process exit code.
// Failures are rendered once on stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if a.provider != nil {
		if closeErr := a.provider.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err == nil {
		return 0
	}

	if a.printer != nil {
		a.printer.Failure(err)
	} else {
		pterm.Error.WithWriter(stderr).Println(output.Describe(err))
	}
	return 1
}
