package kv

import (
	"context"
	"fmt"
)

// Options selects and configures a backend.
type Options struct {
	Driver Driver
	// Dir is the directory for DriverFile (default ~/.shopctl).
	Dir   string
	Redis RedisConfig
}

// Open constructs the Store named by opts.Driver. An empty driver means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFile
	}
	switch driver {
	case DriverFile:
		store, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		if opts.Redis.Addr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		store, err := ConnectRedis(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q (want file, memory or redis)", driver)
	}
}
