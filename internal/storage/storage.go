// Package storage provides the durable key/value store backing the cart and
// session state machines. Implementations survive process restarts and are
// namespaced by origin so separate deployments never share state.
package storage

import (
	"context"
	"errors"
	"sync"
)

// Keys persisted by the state machines. Exact names are load-bearing: they
// must match for backward-compatible recovery of previously saved state.
const (
	KeyCartItems    = "cartItems"
	KeySessionToken = "sessionToken"
	KeyUsername     = "username"
	KeyIsAdmin      = "isAdmin"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the persistence surface required by the state machines.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Memory is an in-process Store used by tests and the default demo wiring.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
