package types

import (
	"fmt"
	"time"
)

// Named is implemented by every catalog entity that carries a unique name.
// Backends use it to assign IDs and maintain the normalized-name index
// without knowing the concrete struct.
type Named interface {
	EntityID() string
	EntityName() string
	EntityCreatedAt() time.Time
	SetEntityID(id string)
	SetEntityCreatedAt(ts time.Time)
}

// NewNamed returns an empty entity of the kind stored in the named table.
// Returns ErrTableNotFound for tables whose records carry no name.
func NewNamed(table, name string) (Named, error) {
	now := time.Now().UTC()
	switch table {
	case IngredientsTable:
		return &Ingredient{Name: name, CreatedAt: now}, nil
	case RecipesTable:
		return &Recipe{Name: name, CreatedAt: now}, nil
	case CategoriesTable:
		return &Category{Name: name, CreatedAt: now}, nil
	case MenusTable:
		return &Menu{Name: name, CreatedAt: now}, nil
	case RestaurantsTable:
		return &Restaurant{Name: name, CreatedAt: now}, nil
	default:
		return nil, fmt.Errorf("%w: %s has no named records", ErrTableNotFound, table)
	}
}

// TableOf returns the table that stores entities of n's kind, or "" for
// types this package does not define.
func TableOf(n Named) string {
	switch n.(type) {
	case *Ingredient:
		return IngredientsTable
	case *Recipe:
		return RecipesTable
	case *Category:
		return CategoriesTable
	case *Menu:
		return MenusTable
	case *Restaurant:
		return RestaurantsTable
	default:
		return ""
	}
}

// CloneNamed returns a shallow copy of a named entity so that stores never
// hand out pointers to their own state.
func CloneNamed(n Named) Named {
	switch e := n.(type) {
	case *Ingredient:
		c := *e
		return &c
	case *Recipe:
		c := *e
		return &c
	case *Category:
		c := *e
		return &c
	case *Menu:
		c := *e
		return &c
	case *Restaurant:
		c := *e
		return &c
	default:
		return n
	}
}
