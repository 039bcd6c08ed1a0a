package kv

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store. It can be switched off to simulate storage that is
// disabled (e.g. a private-browsing context).
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	disabled bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// SetDisabled toggles availability. While disabled every operation fails with
// an UnavailableError.
func (m *Memory) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = disabled
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.disabled {
		return "", &UnavailableError{Backend: "memory"}
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled {
		return &UnavailableError{Backend: "memory"}
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled {
		return &UnavailableError{Backend: "memory"}
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.disabled {
		return nil, &UnavailableError{Backend: "memory"}
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Close() error {
	return nil
}
