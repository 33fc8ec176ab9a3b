package blobstore

import (
	"sync"
)

// MemoryStore is an in-process Store. It counts writes per key so tests can
// check how often a caller persisted a value.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]map[string][]byte
	writes map[string]int

	// FailWrites makes every Put return this error when non-nil.
	FailWrites error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]map[string][]byte),
		writes: make(map[string]int),
	}
}

// Get implements Store.
func (m *MemoryStore) Get(namespace, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[namespace]
	if !ok {
		return nil, ErrNotFound
	}
	value, ok := ns[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put implements Store.
func (m *MemoryStore) Put(namespace, key string, value []byte) error {
	if err := validateName("namespace", namespace); err != nil {
		return err
	}
	if err := validateName("key", key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes[namespace+"/"+key]++
	if m.FailWrites != nil {
		return m.FailWrites
	}

	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.data[namespace] = ns
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ns[key] = stored
	return nil
}

// Delete implements Store. Deleting a missing key is not an error.
func (m *MemoryStore) Delete(namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ns, ok := m.data[namespace]; ok {
		delete(ns, key)
	}
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, namespace)
	return nil
}

// Writes returns how many times Put was called for namespace/key.
func (m *MemoryStore) Writes(namespace, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[namespace+"/"+key]
}
