package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mesh-intelligence/larder/internal/memory"
	"github.com/mesh-intelligence/larder/internal/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// backends returns a constructor per store implementation so each test runs
// against both.
func backends() map[string]func(t *testing.T) types.Store {
	return map[string]func(t *testing.T) types.Store{
		"memory": func(t *testing.T) types.Store {
			s := memory.New()
			require.NoError(t, s.Attach(types.Config{Backend: types.BackendMemory}))
			t.Cleanup(func() { s.Detach() })
			return s
		},
		"sqlite": func(t *testing.T) types.Store {
			s := sqlite.NewBackend()
			require.NoError(t, s.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
			t.Cleanup(func() { s.Detach() })
			return s
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, svc *Service)) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			svc, err := New(open(t), nil)
			require.NoError(t, err)
			fn(t, svc)
		})
	}
}

func newMemoryService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendMemory}))
	svc, err := New(store, nil)
	require.NoError(t, err)
	return svc, store
}

func names(refs []Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

func TestNew_NilStore(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestLookup_NormalizedNames(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		created, err := svc.Create(Ingredients, "Tomato")
		require.NoError(t, err)

		for _, q := range []string{"tomato", " TOMATO ", "\tToMaTo\n"} {
			got, err := svc.Lookup(Ingredients, q)
			require.NoError(t, err, q)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, "Tomato", got.Name)
		}

		_, err = svc.Lookup(Ingredients, "potato")
		assert.ErrorIs(t, err, types.ErrNotFound)

		_, err = svc.Lookup(Ingredients, "   ")
		assert.ErrorIs(t, err, types.ErrInvalidName)
	})
}

func TestLookup_NormalizedNamesProperty(t *testing.T) {
	svc, _ := newMemoryService(t)
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.StringMatching(`[a-z][a-z ]{0,10}[a-z]`).Draw(rt, "base")
		pad := rapid.StringMatching(`[ \t]{0,3}`).Draw(rt, "pad")

		created, _, err := svc.ResolveOrCreate(Recipes, base)
		if err != nil {
			rt.Fatalf("ResolveOrCreate(%q): %v", base, err)
		}
		got, err := svc.Lookup(Recipes, pad+strings.ToUpper(base)+pad)
		if err != nil {
			rt.Fatalf("Lookup of variant of %q: %v", base, err)
		}
		if got.ID != created.ID {
			rt.Fatalf("variant of %q resolved to %s, want %s", base, got.ID, created.ID)
		}
	})
}

func TestResolveOrCreate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		first, created, err := svc.ResolveOrCreate(Ingredients, "Basil")
		require.NoError(t, err)
		assert.True(t, created)

		again, created, err := svc.ResolveOrCreate(Ingredients, "  basil")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)

		_, _, err = svc.ResolveOrCreate(Ingredients, "")
		assert.ErrorIs(t, err, types.ErrInvalidName)
	})
}

func TestCreate_DuplicateWritesNothing(t *testing.T) {
	svc, store := newMemoryService(t)

	_, err := svc.Create(Recipes, "Soup")
	require.NoError(t, err)
	commits := store.Commits()

	_, err = svc.Create(Recipes, "  SOUP ")
	assert.ErrorIs(t, err, types.ErrAlreadyExists)
	assert.Equal(t, commits, store.Commits())
	assert.Zero(t, store.Pending())

	all, err := svc.ListAll(Recipes, SortByName)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAttach_ReusesExistingChild(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		existing, err := svc.Create(Ingredients, "tomato")
		require.NoError(t, err)
		_, err = svc.Create(Recipes, "Salad")
		require.NoError(t, err)

		child, err := svc.Attach(RecipeIngredients, "Salad", " Tomato ")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, child.ID)

		all, err := svc.ListAll(Ingredients, SortByName)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "tomato", all[0].Name)
	})
}

func TestAttach_DuplicatePairIsIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		_, err := svc.Create(Recipes, "Soup")
		require.NoError(t, err)

		first, err := svc.Attach(RecipeIngredients, "Soup", "Salt")
		require.NoError(t, err)
		second, err := svc.Attach(RecipeIngredients, "soup", "SALT")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		children, err := svc.Children(RecipeIngredients, "Soup")
		require.NoError(t, err)
		assert.Equal(t, []string{"Salt"}, names(children))
	})
}

func TestAttach_DuplicatePairCommitsNothing(t *testing.T) {
	svc, store := newMemoryService(t)
	_, err := svc.Create(Recipes, "Soup")
	require.NoError(t, err)

	before := store.Commits()
	_, err = svc.Attach(RecipeIngredients, "Soup", "Salt")
	require.NoError(t, err)
	assert.Equal(t, before+2, store.Commits(), "new child and new link commit separately")

	before = store.Commits()
	_, err = svc.Attach(RecipeIngredients, "Soup", "Salt")
	require.NoError(t, err)
	assert.Equal(t, before, store.Commits())
	assert.Zero(t, store.Pending())
}

func TestAttach_MissingParent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		_, err := svc.Attach(RecipeIngredients, "Ghost", "Salt")
		assert.ErrorIs(t, err, types.ErrNotFound)

		_, err = svc.Lookup(Ingredients, "Salt")
		assert.ErrorIs(t, err, types.ErrNotFound, "child must not be created when the parent is missing")
	})
}

func TestAttach_PreservesOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		_, err := svc.Create(Menus, "Dinner")
		require.NoError(t, err)
		for _, r := range []string{"Stew", "Antipasto", "Pie"} {
			_, err := svc.Attach(MenuRecipes, "Dinner", r)
			require.NoError(t, err)
		}

		children, err := svc.Children(MenuRecipes, "dinner")
		require.NoError(t, err)
		assert.Equal(t, []string{"Stew", "Antipasto", "Pie"}, names(children))
	})
}

func TestDetach(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		_, err := svc.Create(Recipes, "Soup")
		require.NoError(t, err)
		_, err = svc.Attach(RecipeIngredients, "Soup", "Salt")
		require.NoError(t, err)
		_, err = svc.Create(Ingredients, "Pepper")
		require.NoError(t, err)

		err = svc.Detach(RecipeIngredients, "Soup", "pepper")
		assert.ErrorIs(t, err, types.ErrNotFound)
		children, err := svc.Children(RecipeIngredients, "Soup")
		require.NoError(t, err)
		assert.Equal(t, []string{"Salt"}, names(children))

		err = svc.Detach(RecipeIngredients, "Ghost", "Salt")
		assert.ErrorIs(t, err, types.ErrNotFound)

		require.NoError(t, svc.Detach(RecipeIngredients, "SOUP", " salt "))
		children, err = svc.Children(RecipeIngredients, "Soup")
		require.NoError(t, err)
		assert.Empty(t, children)

		_, err = svc.Lookup(Ingredients, "Salt")
		assert.NoError(t, err, "detach keeps the child entity")
	})
}

func TestDelete_KeepsSharedChildren(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		for _, r := range []string{"Soup", "Stew"} {
			_, err := svc.Create(Recipes, r)
			require.NoError(t, err)
			_, err = svc.Attach(RecipeIngredients, r, "Salt")
			require.NoError(t, err)
		}

		require.NoError(t, svc.Delete(Recipes, "soup"))

		_, err := svc.Lookup(Recipes, "Soup")
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = svc.Lookup(Ingredients, "Salt")
		assert.NoError(t, err)

		children, err := svc.Children(RecipeIngredients, "Stew")
		require.NoError(t, err)
		assert.Equal(t, []string{"Salt"}, names(children))
	})
}

func TestDelete_ChildDropsItsLinks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		_, err := svc.Create(Restaurants, "Chez Panisse")
		require.NoError(t, err)
		_, err = svc.Attach(RestaurantMenus, "Chez Panisse", "Lunch")
		require.NoError(t, err)
		_, err = svc.Attach(RestaurantMenus, "Chez Panisse", "Dinner")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(Menus, "lunch"))

		children, err := svc.Children(RestaurantMenus, "Chez Panisse")
		require.NoError(t, err)
		assert.Equal(t, []string{"Dinner"}, names(children))

		assert.ErrorIs(t, svc.Delete(Menus, "lunch"), types.ErrNotFound)
	})
}

func TestListAll_SortByCategory(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		for _, r := range []string{"Tiramisu", "Soup", "Bruschetta", "Apple Pie", "Water"} {
			_, err := svc.Create(Recipes, r)
			require.NoError(t, err)
		}
		_, err := svc.SetCategory("Tiramisu", "Dessert")
		require.NoError(t, err)
		_, err = svc.SetCategory("Apple Pie", "dessert")
		require.NoError(t, err)
		_, err = svc.SetCategory("Bruschetta", "Appetizer")
		require.NoError(t, err)
		_, err = svc.SetCategory("Soup", "Appetizer")
		require.NoError(t, err)
		_, err = svc.Attach(RecipeIngredients, "Soup", "Salt")
		require.NoError(t, err)

		all, err := svc.ListAll(Recipes, SortByCategory)
		require.NoError(t, err)

		var got []string
		for _, d := range all {
			got = append(got, d.Category+"/"+d.Name)
		}
		assert.Equal(t, []string{
			"/Water",
			"Appetizer/Bruschetta",
			"Appetizer/Soup",
			"Dessert/Apple Pie",
			"Dessert/Tiramisu",
		}, got)
		assert.Equal(t, []string{"Salt"}, names(all[2].Children))

		byName, err := svc.ListAll(Recipes, SortByName)
		require.NoError(t, err)
		assert.Equal(t, "Apple Pie", byName[0].Name)
		assert.Equal(t, "Water", byName[4].Name)

		cats, err := svc.ListAll(Categories, SortByName)
		require.NoError(t, err)
		assert.Len(t, cats, 2)
	})
}

func TestSetCategory(t *testing.T) {
	svc, store := newMemoryService(t)
	_, err := svc.SetCategory("Ghost", "Main")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = svc.Create(Recipes, "Soup")
	require.NoError(t, err)
	cat, err := svc.SetCategory("Soup", "Starter")
	require.NoError(t, err)
	assert.Equal(t, "Starter", cat.Name)

	before := store.Commits()
	again, err := svc.SetCategory("soup", "STARTER")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, again.ID)
	assert.Equal(t, before, store.Commits())
}

// Soup gets Salt twice under different spellings, a missing detach fails,
// and deleting the recipe leaves the ingredient in place.
func TestSoupAndSaltScenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service) {
		_, err := svc.Create(Recipes, "Soup")
		require.NoError(t, err)

		salt, err := svc.Attach(RecipeIngredients, "Soup", "Salt")
		require.NoError(t, err)
		again, err := svc.Attach(RecipeIngredients, "Soup", " salt ")
		require.NoError(t, err)
		assert.Equal(t, salt.ID, again.ID)

		assert.ErrorIs(t, svc.Detach(RecipeIngredients, "Soup", "pepper"), types.ErrNotFound)

		require.NoError(t, svc.Delete(Recipes, "Soup"))
		_, err = svc.Lookup(Recipes, "Soup")
		assert.ErrorIs(t, err, types.ErrNotFound)

		ingredients, err := svc.ListAll(Ingredients, SortByName)
		require.NoError(t, err)
		require.Len(t, ingredients, 1)
		assert.Equal(t, "Salt", ingredients[0].Name)
	})
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"ingredients", Ingredients, false},
		{"Recipe", Recipes, false},
		{" category ", Categories, false},
		{"MENUS", Menus, false},
		{"restaurant", Restaurants, false},
		{"links", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
