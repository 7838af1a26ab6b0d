package adapters

import "sync"

// MemoryStore keeps the snapshot in process memory. Nothing survives a
// restart; it exists for tests and for callers that opt out of durability.
type MemoryStore struct {
	mu    sync.Mutex
	items [][]byte
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new empty MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save replaces the snapshot with a copy of items.
func (m *MemoryStore) Save(items [][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(items))
	for i, item := range items {
		blob := make([]byte, len(item))
		copy(blob, item)
		copied[i] = blob
	}
	m.items = copied
	return nil
}

// Load returns a copy of the snapshot.
func (m *MemoryStore) Load() ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.items))
	for i, item := range m.items {
		blob := make([]byte, len(item))
		copy(blob, item)
		copied[i] = blob
	}
	return copied, nil
}

// Clear drops the snapshot.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}
