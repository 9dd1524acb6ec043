package blob

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const memoryScheme = "memory://"

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[key] = memoryObject{data: cp, contentType: contentType}
	return memoryScheme + key, nil
}

func (m *MemoryStore) Fetch(_ context.Context, ref string) ([]byte, string, error) {
	key := strings.TrimPrefix(ref, memoryScheme)

	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("blob %s not found", key)
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return cp, obj.contentType, nil
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
