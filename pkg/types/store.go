package types

import "errors"

// Store defines the record store the catalog runs against. Callers attach to
// a backend, reach tables by name, commit after every mutation, and detach
// when done.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Commit durably flushes every mutation made since the previous Commit
	// before returning.
	Commit() error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// Pending mutations are flushed first. After Detach, operations return
	// ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
