// Package kv defines the durable key/value capability the session store
// persists credentials into, with file, memory and Redis backends.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Driver identifies a concrete backend.
type Driver string

const (
	// DriverFile stores values in a JSON file under the user's config dir (default).
	DriverFile Driver = "file"
	// DriverMemory keeps values in process memory (tests, throwaway sessions).
	DriverMemory Driver = "memory"
	// DriverRedis stores values in Redis so several shells share one session.
	DriverRedis Driver = "redis"
)

// Store is a string key/value store. Remove of a missing key is not an error.
type Store interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}
