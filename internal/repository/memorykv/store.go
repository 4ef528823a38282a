package memorykv

import (
	"context"
	"sync"
	"time"

	"github.com/mannepanne/hultberg-admin/internal/model"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Store is an in-process model.KVStore with per-key expiry. Expired keys
// are collected lazily on access, so memory use is bounded by the key
// churn between reads rather than strictly by live keys.
type Store struct {
	mu    sync.Mutex
	data  map[string]entry
	clock model.Clock
}

// New creates an empty store reading time from clock.
func New(clock model.Clock) *Store {
	return &Store{
		data:  make(map[string]entry),
		clock: clock,
	}
}

// Get returns the value for key, or model.ErrNotFound if the key is
// absent or its TTL has elapsed.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return "", model.ErrNotFound
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(s.data, key)
		return "", model.ErrNotFound
	}

	return e.value, nil
}

// Put stores value under key with the given TTL, replacing any previous
// value and its expiry.
func (s *Store) Put(_ context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{
		value:     value,
		expiresAt: s.clock.Now().Add(ttl),
	}

	return nil
}
