package config

import (
	"context"

	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/client"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/output"
)

type contextKey string

const configKey contextKey = "shopctl-config"

// GlobalConfig holds shared state for all shopctl commands.
// It is injected into the cobra command context by the root command's
// PersistentPreRunE hook and consumed by all subcommands.
type GlobalConfig struct {
	Config         *Config
	ClientProvider *client.Provider
	Printer        *output.Printer
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// Only use it in RunE functions reached through the root command.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("shopctl: config not found in context - this is a bug in shopctl")
	}
	return cfg
}
