package ledger

import "sync"

// Store is the durable key-value collaborator ledger state lives in.
// Blobs are whole-state JSON; a Save replaces the previous blob for the
// same name (last write wins, no cross-name transactions).
type Store interface {
	Load(name string) ([]byte, bool, error)
	Save(name string, blob []byte) error
}

// MemoryStore keeps blobs in a process-local map.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Load(name string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[name]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, true, nil
}

func (m *MemoryStore) Save(name string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(blob))
	copy(cp, blob)
	m.blobs[name] = cp
	return nil
}
