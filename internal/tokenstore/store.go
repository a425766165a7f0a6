// Package tokenstore persists the bearer token between runs of the console and hrctl.
//
// Exactly one string lives under StorageKey. An empty string from Load means no
// token is stored; it is never an error.
package tokenstore

import (
	"context"
	"sync"
)

// StorageKey is the fixed key the token is stored under in every backend.
const StorageKey = "token"

// Store is the persisted client state shared by the session manager and the API client.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Memory keeps the token in process memory. Used by tests and by hrctl when
// persistence is not wanted.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
)
