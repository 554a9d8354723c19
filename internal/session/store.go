// Package session holds the current bearer credential and role claim and
// mirrors them into a durable key/value backend so they survive restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/terraconstructs/shopctl/internal/kv"
	"github.com/terraconstructs/shopctl/pkg/sdk"
)

// Durable keys. Exactly these two values are persisted.
const (
	TokenKey = "token"
	RoleKey  = "userRole"
)

// Store is the session store. The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	backend kv.Store
	creds   sdk.Credentials
	present bool
	log     zerolog.Logger
}

// New returns a Store hydrated from backend. Missing or malformed durable
// content yields an anonymous session; hydration never fails.
func New(ctx context.Context, backend kv.Store, log zerolog.Logger) *Store {
	s := &Store{backend: backend, log: log}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	token, err := s.backend.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn().Err(err).Msg("stored session unreadable; starting anonymous")
		}
		return
	}
	if token == "" {
		return
	}

	rawRole, err := s.backend.Get(ctx, RoleKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored session has no role; starting anonymous")
		return
	}
	role, err := sdk.ParseRole(rawRole)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored session role invalid; starting anonymous")
		return
	}

	s.creds = sdk.Credentials{Token: token, Role: role}
	s.present = true
	s.log.Debug().Str("role", string(role)).Msg("session restored")
}

// SetCredential replaces the current credential in memory and in the durable
// backend. The in-memory value is updated even if persisting fails; an empty
// token or unknown role leaves the session untouched.
func (s *Store) SetCredential(ctx context.Context, token string, role sdk.Role) error {
	if token == "" {
		return fmt.Errorf("credential token must not be empty")
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	s.mu.Lock()
	s.creds = sdk.Credentials{Token: token, Role: role}
	s.present = true
	s.mu.Unlock()

	if err := s.backend.Put(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.backend.Put(ctx, RoleKey, string(role)); err != nil {
		return fmt.Errorf("failed to persist role: %w", err)
	}
	s.log.Debug().Str("role", string(role)).Msg("session credential set")
	return nil
}

// ClearCredential makes the session anonymous. Clearing an already anonymous
// session is a no-op.
func (s *Store) ClearCredential(ctx context.Context) error {
	s.mu.Lock()
	s.creds = sdk.Credentials{}
	s.present = false
	s.mu.Unlock()

	if err := s.backend.Remove(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	if err := s.backend.Remove(ctx, RoleKey); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	s.log.Debug().Msg("session cleared")
	return nil
}

// Credential returns the current credential, or false when anonymous.
func (s *Store) Credential() (sdk.Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, s.present
}
