package store

import (
	"context"
	"sync"
)

// MemoryStore держит коллекции в памяти; используется в тестах и для демо
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

var _ RecordStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Record)}
}

func (m *MemoryStore) Load(_ context.Context, name string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return copy
	return clone(m.collections[name]), nil
}

func (m *MemoryStore) Save(_ context.Context, name string, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[name] = clone(records)
	return nil
}
