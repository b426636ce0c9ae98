package sqlite

import "github.com/mesh-intelligence/larder/pkg/types"

// tableSpec ties a store table to its SQLite table, JSONL file and the
// columns written to that file. name_key is derived on load and never
// persisted.
type tableSpec struct {
	name    string   // table name, shared by SQLite and types.*Table
	file    string   // JSONL file name inside DataDir
	idCol   string   // primary key column
	columns []string // persisted columns in JSONL order
	named   bool     // records carry name and name_key
}

// JSONL file names.
const (
	ingredientsJSONL = "ingredients.jsonl"
	categoriesJSONL  = "categories.jsonl"
	recipesJSONL     = "recipes.jsonl"
	menusJSONL       = "menus.jsonl"
	restaurantsJSONL = "restaurants.jsonl"
	linksJSONL       = "links.jsonl"
)

// tableSpecs lists every table in load order.
var tableSpecs = []tableSpec{
	{types.IngredientsTable, ingredientsJSONL, "ingredient_id", []string{"ingredient_id", "name", "created_at"}, true},
	{types.CategoriesTable, categoriesJSONL, "category_id", []string{"category_id", "name", "created_at"}, true},
	{types.RecipesTable, recipesJSONL, "recipe_id", []string{"recipe_id", "name", "category_id", "created_at"}, true},
	{types.MenusTable, menusJSONL, "menu_id", []string{"menu_id", "name", "created_at"}, true},
	{types.RestaurantsTable, restaurantsJSONL, "restaurant_id", []string{"restaurant_id", "name", "created_at"}, true},
	{types.LinksTable, linksJSONL, "link_id", []string{"link_id", "link_type", "from_id", "to_id", "position", "created_at"}, false},
}

// specFor returns the tableSpec for a table name.
func specFor(name string) (tableSpec, bool) {
	for _, s := range tableSpecs {
		if s.name == name {
			return s, true
		}
	}
	return tableSpec{}, false
}
