package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/estorelabs/storefront/internal/cart"
	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/storage"
	"github.com/estorelabs/storefront/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type recordingClearer struct {
	calls int
	err   error
}

func (r *recordingClearer) Clear(ctx context.Context) error {
	r.calls++
	return r.err
}

func TestLoginThenLogout(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	clearer := &recordingClearer{}
	store, err := NewStore(backend, clearer, testLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	store.Login(ctx, "alice", "tok1", false)

	state := store.Snapshot()
	if !state.IsAuthenticated || state.Token != "tok1" {
		t.Fatalf("expected authenticated state, got %+v", state)
	}
	if state.User == nil || state.User.Username != "alice" || state.User.IsAdmin {
		t.Fatalf("unexpected user %+v", state.User)
	}

	for key, want := range map[string]string{
		storage.KeySessionToken: "tok1",
		storage.KeyUsername:     "alice",
		storage.KeyIsAdmin:      "false",
	} {
		got, err := backend.Get(ctx, key)
		if err != nil || got != want {
			t.Fatalf("persisted %s = %q (%v), want %q", key, got, err, want)
		}
	}

	store.Logout(ctx)

	state = store.Snapshot()
	if state.IsAuthenticated || state.User != nil || state.Token != "" {
		t.Fatalf("expected anonymous state after logout, got %+v", state)
	}
	for _, key := range []string{storage.KeySessionToken, storage.KeyUsername, storage.KeyIsAdmin} {
		if _, err := backend.Get(ctx, key); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected %s erased, got %v", key, err)
		}
	}
	if clearer.calls != 1 {
		t.Fatalf("expected exactly one cart clear, got %d", clearer.calls)
	}
}

func TestLogoutCascadeClearsRealCart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	cartStore, err := cart.NewStore(backend, testLogger(), nil)
	if err != nil {
		t.Fatalf("new cart store: %v", err)
	}
	cartStore.AddItem(ctx, catalog.Product{ID: 1, Name: "Phone", Price: 10})

	store, err := NewStore(backend, cartStore, testLogger())
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	store.Login(ctx, "alice", "tok1", false)
	store.Logout(ctx)

	if state := cartStore.Snapshot(); len(state.Items) != 0 {
		t.Fatalf("logout must empty the cart, got %+v", state.Items)
	}
	if _, err := backend.Get(ctx, storage.KeyCartItems); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("logout must erase the persisted cart record, got %v", err)
	}
}

func TestLogoutResetsStateEvenWhenCascadeFails(t *testing.T) {
	ctx := context.Background()
	clearer := &recordingClearer{err: errors.New("boom")}
	store, _ := NewStore(storage.NewMemory(), clearer, testLogger())
	store.Login(ctx, "alice", "tok1", true)

	store.Logout(ctx)

	if state := store.Snapshot(); state.IsAuthenticated {
		t.Fatalf("logout must reset state regardless of cascade errors, got %+v", state)
	}
}

func TestInitializeFromPersistedIdentity(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	backend.Set(ctx, storage.KeySessionToken, "tok9")
	backend.Set(ctx, storage.KeyUsername, "admin")
	backend.Set(ctx, storage.KeyIsAdmin, "true")

	store, _ := NewStore(backend, &recordingClearer{}, testLogger())
	store.Initialize(ctx)

	state := store.Snapshot()
	if !state.IsAuthenticated || state.Token != "tok9" {
		t.Fatalf("expected recovered session, got %+v", state)
	}
	if state.User == nil || !state.User.IsAdmin || state.User.Username != "admin" {
		t.Fatalf("unexpected recovered user %+v", state.User)
	}
}

func TestInitializeWithoutTokenIsAnonymous(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	// A stray username without a token must not authenticate.
	backend.Set(ctx, storage.KeyUsername, "ghost")

	store, _ := NewStore(backend, &recordingClearer{}, testLogger())
	store.Initialize(ctx)

	state := store.Snapshot()
	if state.IsAuthenticated || state.Token != "" {
		t.Fatalf("expected anonymous state, got %+v", state)
	}
}

func TestAuthenticatedMatchesTokenPresence(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore(storage.NewMemory(), &recordingClearer{}, testLogger())

	check := func() {
		state := store.Snapshot()
		if state.IsAuthenticated != (state.Token != "") {
			t.Fatalf("invariant broken: %+v", state)
		}
	}

	check()
	store.Login(ctx, "alice", "tok1", false)
	check()
	store.Logout(ctx)
	check()
}
