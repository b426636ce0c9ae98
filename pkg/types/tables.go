package types

// Standard table names for Store.GetTable.
const (
	IngredientsTable = "ingredients"
	RecipesTable     = "recipes"
	CategoriesTable  = "categories"
	MenusTable       = "menus"
	RestaurantsTable = "restaurants"
	LinksTable       = "links"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	IngredientsTable,
	RecipesTable,
	CategoriesTable,
	MenusTable,
	RestaurantsTable,
	LinksTable,
}

// NamedTableNames lists the tables whose records carry a unique name.
var NamedTableNames = []string{
	IngredientsTable,
	RecipesTable,
	CategoriesTable,
	MenusTable,
	RestaurantsTable,
}

// IsNamedTable reports whether records of the table carry a unique name.
func IsNamedTable(name string) bool {
	for _, n := range NamedTableNames {
		if n == name {
			return true
		}
	}
	return false
}
