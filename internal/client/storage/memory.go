package storage

import (
	"context"
	"sync"
)

// MemoryStorage is an in-memory Storage used in tests and as a throwaway
// profile. External events are injected with Emit.
type MemoryStorage struct {
	mu       sync.Mutex
	values   map[string]string
	watchers []WatchFunc
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryStorage) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) SetMany(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range values {
		m.values[key] = value
	}
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStorage) DeleteMany(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *MemoryStorage) List(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for key, value := range m.values {
		out[key] = value
	}
	return out, nil
}

func (m *MemoryStorage) Watch(ctx context.Context, fn WatchFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
	return nil
}

// Emit simulates a change made by another client: it applies the new value
// and notifies watchers. An empty New removes the key.
func (m *MemoryStorage) Emit(ev Event) {
	m.mu.Lock()
	if ev.New == "" {
		delete(m.values, ev.Key)
	} else {
		m.values[ev.Key] = ev.New
	}
	watchers := make([]WatchFunc, len(m.watchers))
	copy(watchers, m.watchers)
	m.mu.Unlock()

	for _, fn := range watchers {
		fn(ev)
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}
