// Package sqlite implements the durable record store for Larder. SQLite is
// the query engine; one JSONL file per table is the source of truth.
package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL for all tables. Every named table keeps the name as entered
// plus name_key, its normalized form, which carries the uniqueness rule.
const (
	createIngredients = `CREATE TABLE ingredients (
    ingredient_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createCategories = `CREATE TABLE categories (
    category_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createRecipes = `CREATE TABLE recipes (
    recipe_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    category_id TEXT,
    created_at TEXT NOT NULL
);`

	createMenus = `CREATE TABLE menus (
    menu_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createRestaurants = `CREATE TABLE restaurants (
    restaurant_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createLinks = `CREATE TABLE links (
    link_id TEXT PRIMARY KEY,
    link_type TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL.
const (
	idxIngredientsName = `CREATE UNIQUE INDEX idx_ingredients_name ON ingredients(name_key);`
	idxCategoriesName  = `CREATE UNIQUE INDEX idx_categories_name ON categories(name_key);`
	idxRecipesName     = `CREATE UNIQUE INDEX idx_recipes_name ON recipes(name_key);`
	idxRecipesCategory = `CREATE INDEX idx_recipes_category ON recipes(category_id);`
	idxMenusName       = `CREATE UNIQUE INDEX idx_menus_name ON menus(name_key);`
	idxRestaurantsName = `CREATE UNIQUE INDEX idx_restaurants_name ON restaurants(name_key);`
	idxLinksUnique     = `CREATE UNIQUE INDEX idx_links_unique ON links(link_type, from_id, to_id);`
	idxLinksTypeFrom   = `CREATE INDEX idx_links_type_from ON links(link_type, from_id);`
	idxLinksTypeTo     = `CREATE INDEX idx_links_type_to ON links(link_type, to_id);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createIngredients,
	createCategories,
	createRecipes,
	createMenus,
	createRestaurants,
	createLinks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxIngredientsName,
	idxCategoriesName,
	idxRecipesName,
	idxRecipesCategory,
	idxMenusName,
	idxRestaurantsName,
	idxLinksUnique,
	idxLinksTypeFrom,
	idxLinksTypeTo,
}

// createSchema runs every table and index statement against db.
func createSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
