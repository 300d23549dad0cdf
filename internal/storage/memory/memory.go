// Package memory is an in-process storage backend. Nothing survives a
// restart; it backs tests and throwaway runs (storage.type: memory).
package memory

import (
	"slices"
	"sync"

	"github.com/aanand-mishra/patients-api/internal/types"
)

type Store struct {
	mu      sync.RWMutex
	records []types.Patient
}

func New() *Store {
	return &Store{}
}

// Load returns a copy so callers can mutate the result freely.
func (s *Store) Load() ([]types.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Patient, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) SaveAll(records []types.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = slices.Clone(records)
	return nil
}

func (s *Store) Close() error { return nil }
