package mem

import (
	"sync"
	"time"
)

// TTLStore is a small expiring key/value map. It backs the receiver cache
// and the webhook replay guard when redis is not available.
type TTLStore struct {
	mu   sync.RWMutex
	data map[string]entry
}

type entry struct {
	value     string
	expiresAt time.Time
}

func NewTTLStore() *TTLStore {
	return &TTLStore{data: make(map[string]entry)}
}

func (s *TTLStore) Set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

func (s *TTLStore) Get(key string) (string, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (s *TTLStore) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}
