// Package session owns the persisted auth identity. Tokens are opaque: no
// expiry or signature checks happen on this side.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/estorelabs/storefront/internal/storage"
	"github.com/estorelabs/storefront/pkg/logger"
	"go.uber.org/multierr"
)

// User is the authenticated identity.
type User struct {
	Username string
	IsAdmin  bool
}

// State mirrors the persisted session. IsAuthenticated is true exactly when
// a token is held.
type State struct {
	IsAuthenticated bool
	User            *User
	Token           string
}

// CartClearer is the cascade target invoked on logout. Cart contents are not
// portable across identities.
type CartClearer interface {
	Clear(ctx context.Context) error
}

// Store materializes session state from durable storage. Login and Logout are
// the only mutators.
type Store struct {
	mu      sync.Mutex
	state   State
	storage storage.Store
	cart    CartClearer
	logg    *logger.Logger
}

// NewStore builds a session store. The cart clearer is constructor-injected
// so the logout cascade never reaches through globals.
func NewStore(backend storage.Store, cart CartClearer, logg *logger.Logger) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage backend required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart clearer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{storage: backend, cart: cart, logg: logg}, nil
}

// Initialize reconstructs the session from persisted keys. A present token
// yields an authenticated state; anything else yields anonymous. Never fails.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.storage.Get(ctx, storage.KeySessionToken)
	if err != nil || token == "" {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "session: could not read persisted token")
		}
		s.state = State{}
		return
	}

	username, err := s.storage.Get(ctx, storage.KeyUsername)
	if err != nil {
		username = ""
	}
	isAdmin := false
	if rawAdmin, err := s.storage.Get(ctx, storage.KeyIsAdmin); err == nil {
		isAdmin = rawAdmin == "true"
	}

	s.state = State{
		IsAuthenticated: true,
		User:            &User{Username: username, IsAdmin: isAdmin},
		Token:           token,
	}
}

// Login persists the identity and switches to the authenticated state. It
// never calls the network; the token is stored as-is.
func (s *Store) Login(ctx context.Context, username, token string, isAdmin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := multierr.Combine(
		s.storage.Set(ctx, storage.KeySessionToken, token),
		s.storage.Set(ctx, storage.KeyUsername, username),
		s.storage.Set(ctx, storage.KeyIsAdmin, strconv.FormatBool(isAdmin)),
	); err != nil {
		s.logg.Error(s.logg.WithUsername(ctx, username), "session: could not persist identity", err)
	}

	s.state = State{
		IsAuthenticated: true,
		User:            &User{Username: username, IsAdmin: isAdmin},
		Token:           token,
	}
	s.logg.Info(s.logg.WithUsername(ctx, username), "session: logged in")
}

// Logout erases the persisted identity, resets to anonymous, and clears the
// cart. The session reset and the cascade fire regardless of persistence
// errors; those are aggregated and logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state = State{}
	err := multierr.Combine(
		s.storage.Remove(ctx, storage.KeySessionToken),
		s.storage.Remove(ctx, storage.KeyUsername),
		s.storage.Remove(ctx, storage.KeyIsAdmin),
	)
	s.mu.Unlock()

	// Strict causal order: the session is anonymous before the cascade fires.
	err = multierr.Append(err, s.cart.Clear(ctx))

	if err != nil {
		s.logg.Error(ctx, "session: logout left partial persisted state", err)
	} else {
		s.logg.Info(ctx, "session: logged out")
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	if state.User != nil {
		user := *state.User
		state.User = &user
	}
	return state
}
