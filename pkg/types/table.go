package types

import "errors"

// Filter narrows Table.Fetch results. Keys are table specific; an empty or
// nil filter matches every record.
type Filter map[string]any

// Table provides uniform record operations for a single entity kind.
// Get, FindByName and Fetch return any; callers type-assert to the concrete
// entity struct.
type Table interface {
	// Get retrieves the record with the given ID.
	// Returns ErrNotFound if no record exists with that ID.
	Get(id string) (any, error)

	// FindByName retrieves the record whose normalized name equals
	// Normalize(name). Returns ErrNotFound when there is no match.
	// Tables without names return ErrInvalidData.
	FindByName(name string) (any, error)

	// Add stores a new record, assigns it a UUID v7 and returns the ID.
	// Returns ErrAlreadyExists if the record would break a uniqueness rule.
	Add(data any) (string, error)

	// Update replaces the stored record with the given ID.
	// Returns ErrNotFound if no record exists with that ID.
	Update(id string, data any) error

	// Remove deletes the record with the given ID. Association records that
	// reference it are left alone; cascading is the caller's concern.
	// Returns ErrNotFound if no record exists with that ID.
	Remove(id string) error

	// Fetch returns all records matching the filter, ordered by normalized
	// name for named tables and by position for links.
	Fetch(filter Filter) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidFilter = errors.New("invalid filter value type")
)
