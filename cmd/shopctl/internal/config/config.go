package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/client"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/output"
	"github.com/terraconstructs/shopctl/internal/kv"
)

// Config is the environment configuration. Flags on the root command
// override individual values after loading.
type Config struct {
	ServerURL   string        `env:"SHOPCTL_SERVER,       default=http://localhost:5000/api"`
	LogLevel    string        `env:"SHOPCTL_LOG_LEVEL,    default=warn"`
	LogPretty   bool          `env:"SHOPCTL_LOG_PRETTY,   default=true"`
	Output      string        `env:"SHOPCTL_OUTPUT,       default=pretty"`
	Workspace   string        `env:"SHOPCTL_WORKSPACE,    default=.shopctl.json"`
	HTTPTimeout time.Duration `env:"SHOPCTL_HTTP_TIMEOUT, default=30s"`

	Session SessionConfig
}

// SessionConfig selects the durable credential backend.
type SessionConfig struct {
	Backend     string `env:"SHOPCTL_SESSION_BACKEND, default=file"`
	Dir         string `env:"SHOPCTL_SESSION_DIR"`
	RedisAddr   string `env:"SHOPCTL_REDIS_ADDR,      default=localhost:6379"`
	RedisDB     int    `env:"SHOPCTL_REDIS_DB,        default=0"`
	RedisPrefix string `env:"SHOPCTL_REDIS_PREFIX,    default=shopctl"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.ServerURL)
	}
	if _, err := output.ParseFormat(c.Output); err != nil {
		return err
	}
	switch kv.Driver(c.Session.Backend) {
	case kv.DriverFile, kv.DriverMemory, kv.DriverRedis:
	default:
		return fmt.Errorf("unknown session backend %q (want file, memory or redis)", c.Session.Backend)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative")
	}
	return nil
}

// ProviderOptions maps the configuration onto client provider options.
func (c *Config) ProviderOptions(log zerolog.Logger) client.Options {
	return client.Options{
		ServerURL: c.ServerURL,
		Timeout:   c.HTTPTimeout,
		Store: kv.Options{
			Driver: kv.Driver(c.Session.Backend),
			Dir:    c.Session.Dir,
			Redis: kv.RedisConfig{
				Addr:   c.Session.RedisAddr,
				DB:     c.Session.RedisDB,
				Prefix: c.Session.RedisPrefix,
			},
		},
		WorkspacePath: c.Workspace,
		Logger:        log,
	}
}
