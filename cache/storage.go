package cache

import (
	"errors"
	"strings"
	"sync"
)

// Storage is the synchronous string-keyed, string-valued backing store the
// TTL layer writes through. Implementations enforce an optional byte quota
// and return ErrQuotaExceeded on overflow, mirroring the capacity semantics
// of a browser local storage area.
type Storage interface {
	// Get returns the stored value. The second result is false on miss.
	Get(key string) (string, bool, error)
	// Set writes the value, overwriting any previous one.
	Set(key, value string) error
	// Delete removes the key. Idempotent - no error on miss.
	Delete(key string) error
	// Keys lists every stored key starting with prefix.
	Keys(prefix string) ([]string, error)
	Close() error
}

// ErrQuotaExceeded is returned by Set when a write would push the store
// past its configured byte quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// MemoryStorage is a map-backed Storage used per process and in tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int64
	used  int64
}

// NewMemoryStorage creates an in-memory storage. quotaBytes of 0 means unlimited.
func NewMemoryStorage(quotaBytes int64) *MemoryStorage {
	return &MemoryStorage{
		data:  make(map[string]string),
		quota: quotaBytes,
	}
}

func (s *MemoryStorage) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.data[key]
	return value, exists, nil
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delta := int64(len(key) + len(value))
	if previous, exists := s.data[key]; exists {
		delta -= int64(len(key) + len(previous))
	}

	if s.quota > 0 && s.used+delta > s.quota {
		return ErrQuotaExceeded
	}

	s.data[key] = value
	s.used += delta
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, exists := s.data[key]; exists {
		s.used -= int64(len(key) + len(value))
		delete(s.data, key)
	}
	return nil
}

func (s *MemoryStorage) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
