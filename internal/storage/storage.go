// Package storage defines the Storage interface — the contract every record
// store backend must satisfy.
//
// The service only ever reads the whole collection and writes the whole
// collection back, so that is all a backend has to offer. Backends live in
// sub-packages (jsonfile, sqlite, leveldb, memory) and are picked in main.
package storage

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/patients-api/internal/types"
)

// ErrStorage marks a failure of the underlying store (unreadable, corrupt
// or unwritable). Callers test for it with errors.Is.
var ErrStorage = errors.New("storage error")

// Storage is the record store contract.
type Storage interface {
	// Load returns every stored record in insertion order. An empty store
	// yields an empty (non-nil) slice.
	Load() ([]types.Patient, error)

	// SaveAll replaces the entire stored collection with records, keeping
	// their order. It either fully succeeds or leaves the previous
	// collection in place.
	SaveAll(records []types.Patient) error

	// Close releases any handle held by the backend.
	Close() error
}

// Wrap annotates err with the failing operation and marks it as ErrStorage.
// A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
