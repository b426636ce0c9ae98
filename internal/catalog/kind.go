package catalog

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Kind names an entity kind. Its value is the table the kind is stored in.
type Kind string

// Entity kinds.
const (
	Ingredients Kind = types.IngredientsTable
	Recipes     Kind = types.RecipesTable
	Categories  Kind = types.CategoriesTable
	Menus       Kind = types.MenusTable
	Restaurants Kind = types.RestaurantsTable
)

// Kinds lists every entity kind.
var Kinds = []Kind{Ingredients, Recipes, Categories, Menus, Restaurants}

// Singular returns the kind's singular noun, used in log and error text.
func (k Kind) Singular() string {
	if k == Categories {
		return "category"
	}
	return strings.TrimSuffix(string(k), "s")
}

// ParseKind accepts a kind name in singular or plural form, any case.
func ParseKind(s string) (Kind, error) {
	key := types.Normalize(s)
	for _, k := range Kinds {
		if key == string(k) || key == k.Singular() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// Relation names a parent-to-child association and the link type that
// records it.
type Relation struct {
	LinkType string
	Parent   Kind
	Child    Kind
}

// Supported relations.
var (
	RecipeIngredients = Relation{LinkType: types.LinkTypeUses, Parent: Recipes, Child: Ingredients}
	RestaurantMenus   = Relation{LinkType: types.LinkTypeServes, Parent: Restaurants, Child: Menus}
	MenuRecipes       = Relation{LinkType: types.LinkTypeOffers, Parent: Menus, Child: Recipes}
)

// Relations lists every relation.
var Relations = []Relation{RecipeIngredients, RestaurantMenus, MenuRecipes}

// relationFrom returns the relation whose parent is k.
func relationFrom(k Kind) (Relation, bool) {
	for _, r := range Relations {
		if r.Parent == k {
			return r, true
		}
	}
	return Relation{}, false
}

// Ref identifies one stored entity.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Detail is an entity with its associations expanded.
type Detail struct {
	Ref
	Category string `json:"category,omitempty"`
	Children []Ref  `json:"children,omitempty"`
}

// SortKey selects the ordering used by ListAll.
type SortKey int

// Sort keys.
const (
	SortByName SortKey = iota
	SortByCategory
)
