// internal/infrastructure/session/memory.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store used in tests. Values round-trip through
// JSON so it exercises the same serialization as the Redis store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

func (s *MemoryStore) memKey(sessionID, key string) string {
	return sessionID + ":" + key
}

// Get retrieves and unmarshals a session value into dest
func (s *MemoryStore) Get(ctx context.Context, sessionID, key string, dest interface{}) error {
	s.mu.RLock()
	data, ok := s.data[s.memKey(sessionID, key)]
	s.mu.RUnlock()

	if !ok {
		return ErrKeyNotFound
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode session key %q: %w", key, err)
	}

	return nil
}

// Set marshals and stores a session value
func (s *MemoryStore) Set(ctx context.Context, sessionID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode session key %q: %w", key, err)
	}

	s.mu.Lock()
	s.data[s.memKey(sessionID, key)] = data
	s.mu.Unlock()

	return nil
}

// Delete removes a session value; deleting a missing key is not an error
func (s *MemoryStore) Delete(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	delete(s.data, s.memKey(sessionID, key))
	s.mu.Unlock()

	return nil
}
