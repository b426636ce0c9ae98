package menu

import (
	"errors"

	"github.com/mesh-intelligence/larder/internal/catalog"
	"github.com/mesh-intelligence/larder/pkg/types"
)

func (d *Driver) newIngredient() error {
	return d.create(catalog.Ingredients, "What ingredient would you like to add: ")
}

func (d *Driver) lookupIngredient() error {
	return d.lookup(catalog.Ingredients, "What ingredient would you like to lookup: ", nil, "")
}

func (d *Driver) listIngredients() error {
	return d.list(catalog.Ingredients, "Known Ingredients: ", catalog.SortByName, d.opts.IngredientPageSize)
}

func (d *Driver) deleteIngredient() error {
	return d.delete(catalog.Ingredients, "What ingredient would you like to delete: ")
}

func (d *Driver) lookupRecipe() error {
	rel := catalog.RecipeIngredients
	return d.lookup(catalog.Recipes, "What recipe would you like to lookup: ", &rel, "The Ingredients are: ")
}

func (d *Driver) listRecipes() error {
	return d.list(catalog.Recipes, "Known Recipes: ", catalog.SortByCategory, d.opts.RecipePageSize)
}

func (d *Driver) deleteRecipe() error {
	return d.delete(catalog.Recipes, "What recipe would you like to delete: ")
}

func (d *Driver) addIngredientToRecipe() error {
	return d.attach(catalog.RecipeIngredients,
		"What recipe would you like to add to: ", "What ingredient would you like to add: ")
}

func (d *Driver) removeIngredientFromRecipe() error {
	return d.detach(catalog.RecipeIngredients,
		"What recipe would you like to remove from: ", "What ingredient would you like to remove: ")
}

func (d *Driver) setRecipeCategory() error {
	recipe, err := d.ask("What recipe would you like to categorize: ")
	if err != nil {
		return err
	}
	category, err := d.ask("What category should it be in: ")
	if err != nil {
		return err
	}
	if _, err := d.svc.SetCategory(recipe, category); err != nil {
		d.report(err, recipe)
		return nil
	}
	d.con.Println(Success, "'"+recipe+"' is now in '"+category+"'.")
	return nil
}

func (d *Driver) newRestaurant() error {
	return d.create(catalog.Restaurants, "What restaurant would you like to add: ")
}

func (d *Driver) lookupRestaurant() error {
	rel := catalog.RestaurantMenus
	return d.lookup(catalog.Restaurants, "What restaurant would you like to lookup: ", &rel, "The Menus are: ")
}

func (d *Driver) listRestaurants() error {
	return d.list(catalog.Restaurants, "Known Restaurants: ", catalog.SortByName, d.opts.RecipePageSize)
}

func (d *Driver) deleteRestaurant() error {
	return d.delete(catalog.Restaurants, "What restaurant would you like to delete: ")
}

func (d *Driver) addMenuToRestaurant() error {
	return d.attach(catalog.RestaurantMenus,
		"What restaurant would you like to add to: ", "What menu would you like to add: ")
}

func (d *Driver) removeMenuFromRestaurant() error {
	return d.detach(catalog.RestaurantMenus,
		"What restaurant would you like to remove from: ", "What menu would you like to remove: ")
}

func (d *Driver) addRecipeToMenu() error {
	return d.attach(catalog.MenuRecipes,
		"What menu would you like to add to: ", "What recipe would you like to add: ")
}

// newRecipe creates the recipe, collects ingredient names and attaches them
// one by one. Steps are independent: a failed attach is reported and the
// remaining ingredients are still attempted.
func (d *Driver) newRecipe() error {
	name, err := d.ask("What recipe would you like to add: ")
	if err != nil {
		return err
	}
	if _, err := d.svc.Create(catalog.Recipes, name); err != nil {
		d.report(err, name)
		return nil
	}
	d.added(name)

	var ingredients []string
	for {
		ingredient, err := d.ask("What ingredient would you like to add: ")
		if err != nil {
			return err
		}
		if _, err := d.svc.Lookup(catalog.Ingredients, ingredient); err != nil {
			if !errors.Is(err, types.ErrNotFound) && !errors.Is(err, types.ErrInvalidName) {
				d.report(err, ingredient)
				break
			}
			d.con.Println(Warning, "The ingredient does not exist!")
			add, err := d.confirm("Would you like to add it? (Y/n): ", true)
			if err != nil {
				return err
			}
			if !add {
				d.con.Println(Danger, "Ingredient not added.")
				break
			}
		}
		ingredients = append(ingredients, ingredient)

		another, err := d.confirm("Would you like to add another ingredient? (y/N): ", false)
		if err != nil {
			return err
		}
		if !another {
			break
		}
	}

	for _, ingredient := range ingredients {
		if _, err := d.svc.Attach(catalog.RecipeIngredients, name, ingredient); err != nil {
			d.report(err, ingredient)
			continue
		}
		d.added(ingredient)
	}
	return nil
}

func (d *Driver) create(k catalog.Kind, question string) error {
	name, err := d.ask(question)
	if err != nil {
		return err
	}
	if _, err := d.svc.Create(k, name); err != nil {
		d.report(err, name)
		return nil
	}
	d.added(name)
	return nil
}

// lookup reports whether the entity exists and, when rel is set, lists its
// children under header.
func (d *Driver) lookup(k catalog.Kind, question string, rel *catalog.Relation, header string) error {
	name, err := d.ask(question)
	if err != nil {
		return err
	}
	d.con.Println(Plain, "")
	if _, err := d.svc.Lookup(k, name); err != nil {
		d.report(err, name)
		return nil
	}
	d.con.Println(Warning, name+" exists.")
	if rel == nil {
		return nil
	}

	children, err := d.svc.Children(*rel, name)
	if err != nil {
		d.report(err, name)
		return nil
	}
	d.con.Println(Warning, header)
	for _, c := range children {
		d.con.Println(Plain, c.Name)
	}
	return nil
}

func (d *Driver) list(k catalog.Kind, header string, key catalog.SortKey, size int) error {
	all, err := d.svc.ListAll(k, key)
	if err != nil {
		d.report(err, string(k))
		return nil
	}
	d.con.Println(Plain, header)
	items := make([]string, 0, len(all))
	for _, e := range all {
		items = append(items, e.Name)
	}
	return d.paginate(items, size)
}

func (d *Driver) delete(k catalog.Kind, question string) error {
	name, err := d.ask(question)
	if err != nil {
		return err
	}
	if err := d.svc.Delete(k, name); err != nil {
		d.report(err, name)
		return nil
	}
	d.con.Println(Success, "'"+name+"' has been deleted.")
	return nil
}

func (d *Driver) attach(rel catalog.Relation, parentQuestion, childQuestion string) error {
	parent, err := d.ask(parentQuestion)
	if err != nil {
		return err
	}
	child, err := d.ask(childQuestion)
	if err != nil {
		return err
	}
	if _, err := d.svc.Attach(rel, parent, child); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			d.report(err, parent)
		} else {
			d.report(err, child)
		}
		return nil
	}
	d.added(child)
	return nil
}

// detach removes the link and names the parent or the child in the failure
// message depending on which one is missing.
func (d *Driver) detach(rel catalog.Relation, parentQuestion, childQuestion string) error {
	parent, err := d.ask(parentQuestion)
	if err != nil {
		return err
	}
	child, err := d.ask(childQuestion)
	if err != nil {
		return err
	}
	if err := d.svc.Detach(rel, parent, child); err != nil {
		if _, lookupErr := d.svc.Lookup(rel.Parent, parent); lookupErr != nil {
			d.report(lookupErr, parent)
		} else {
			d.report(err, child)
		}
		return nil
	}
	d.con.Println(Success, "'"+child+"' has been removed from '"+parent+"'.")
	return nil
}
