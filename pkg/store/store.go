// Package store opens the record store selected by a types.Config while
// keeping backend implementations internal.
package store

import (
	"github.com/mesh-intelligence/larder/internal/memory"
	"github.com/mesh-intelligence/larder/internal/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// New returns a detached store for cfg.Backend.
func New(cfg types.Config) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == types.BackendMemory {
		return memory.New(), nil
	}
	return sqlite.NewBackend(), nil
}

// Open creates the store for cfg and attaches it. The caller must Detach.
//
// Example:
//
//	s, err := store.Open(types.Config{Backend: types.BackendSQLite, DataDir: ".larder-db"})
//	if err != nil {
//	    return err
//	}
//	defer s.Detach()
func Open(cfg types.Config) (types.Store, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(cfg); err != nil {
		return nil, err
	}
	return s, nil
}
