package kvstore

import "sync"

// memoryBackend implements Backend using an in-memory map.
// Nothing written here survives the process.
type memoryBackend struct {
	values map[string][]byte
	mu     sync.RWMutex
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() Backend {
	return newMemoryBackend()
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		values: make(map[string][]byte),
	}
}

// Get implements Backend.Get.
func (m *memoryBackend) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Put implements Backend.Put.
func (m *memoryBackend) Put(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements Backend.Delete.
func (m *memoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Close implements Backend.Close.
func (m *memoryBackend) Close() error {
	return nil
}
