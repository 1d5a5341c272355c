package storage

import (
	"context"
	"sync"
)

type prefKey struct {
	scope int64
	key   string
}

// PreferenceStorage is an in-memory key-value store for user preferences.
// It is used when no database is configured; values are lost on restart.
type PreferenceStorage struct {
	mu     sync.RWMutex
	values map[prefKey]string
}

// NewPreferenceStorage creates a new PreferenceStorage.
func NewPreferenceStorage() *PreferenceStorage {
	return &PreferenceStorage{
		values: make(map[prefKey]string),
	}
}

// GetAll returns every value stored for scope.
func (s *PreferenceStorage) GetAll(_ context.Context, scope int64) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string)
	for k, v := range s.values {
		if k.scope == scope {
			out[k.key] = v
		}
	}
	return out, nil
}

// Set stores value under key for scope.
func (s *PreferenceStorage) Set(_ context.Context, scope int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[prefKey{scope: scope, key: key}] = value
	return nil
}

// Reset removes every value stored for scope.
func (s *PreferenceStorage) Reset(_ context.Context, scope int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.values {
		if k.scope == scope {
			delete(s.values, k)
		}
	}
	return nil
}
