package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/scry-deck/internal/cache"
)

// MockCache is an in-memory cache.Cache with injectable failures
type MockCache struct {
	GetErr    error
	SetErr    error
	DeleteErr error

	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
}

// NewMockCache creates an empty MockCache
func NewMockCache() *MockCache {
	return &MockCache{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

// Get implements cache.Cache
func (m *MockCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return "", m.GetErr
	}
	value, ok := m.entries[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return value, nil
}

// Set implements cache.Cache
func (m *MockCache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[key] = value
	m.ttls[key] = expiration
	return nil
}

// Delete implements cache.Cache
func (m *MockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.entries, key)
	delete(m.ttls, key)
	return nil
}

// Entry returns the stored value and TTL for key
func (m *MockCache) Entry(key string) (string, time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.entries[key]
	return value, m.ttls[key], ok
}

// Len returns the number of stored entries
func (m *MockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

var _ cache.Cache = (*MockCache)(nil)
