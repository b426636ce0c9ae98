package menu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/internal/catalog"
	"github.com/mesh-intelligence/larder/internal/memory"
	"github.com/mesh-intelligence/larder/pkg/types"
)

type session struct {
	svc   *catalog.Service
	store *memory.Store
}

func newSession(t *testing.T) *session {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendMemory}))
	svc, err := catalog.New(store, nil)
	require.NoError(t, err)
	return &session{svc: svc, store: store}
}

// countLine counts output lines equal to line.
func countLine(out, line string) int {
	n := 0
	for _, l := range strings.Split(out, "\n") {
		if l == line {
			n++
		}
	}
	return n
}

// run drives the start menu with script as operator input and returns
// everything written.
func (s *session) run(t *testing.T, start State, script string, opts Options) string {
	t.Helper()
	var out bytes.Buffer
	d := NewDriver(s.svc, NewTerminal(strings.NewReader(script), &out), nil, opts)
	require.NoError(t, d.Run(start))
	return out.String()
}

func TestDriver_RendersMainMenu(t *testing.T) {
	out := newSession(t).run(t, Main, "", Options{})

	want := "Main Menu\n\n" +
		"1.) Ingredient Menu\n" +
		"2.) Recipe Menu\n\n" +
		"3.) Exit\n\n" +
		prompt
	assert.Equal(t, want, out)
}

func TestDriver_ExitEndsSession(t *testing.T) {
	out := newSession(t).run(t, Main, "3\nthis line is never read\n", Options{})
	assert.Equal(t, 1, strings.Count(out, prompt))
}

func TestDriver_InvalidInputReprompts(t *testing.T) {
	s := newSession(t)
	_, err := s.svc.Create(catalog.Ingredients, "Salt")
	require.NoError(t, err)

	out := s.run(t, Ingredients, "abc\n9\n3\n", Options{})

	assert.Equal(t, 1, strings.Count(out, "Known Ingredients: "), "choice 3 dispatches once")
	assert.Equal(t, 2, countLine(out, "Ingredient Menu"), "rejected input does not re-render the menu")
	assert.Equal(t, 4, strings.Count(out, prompt))
	assert.Contains(t, out, prompt+prompt+prompt)
}

func TestDriver_SubmenuBackReturnsToMain(t *testing.T) {
	out := newSession(t).run(t, Main, "1\n5\n3\n", Options{})

	assert.Equal(t, 2, countLine(out, "Main Menu"))
	assert.Equal(t, 1, countLine(out, "Ingredient Menu"))
	assert.Contains(t, out, "5.) Back to Main Menu\n")
}

func TestDriver_PaginatesIngredients(t *testing.T) {
	s := newSession(t)
	for i := 0; i < 12; i++ {
		_, err := s.svc.Create(catalog.Ingredients, string(rune('a'+i))+"-spice")
		require.NoError(t, err)
	}

	out := s.run(t, Ingredients, "3\n\n\n", Options{})

	assert.Equal(t, 2, strings.Count(out, nextPage))
	first := strings.Index(out, "e-spice\n\n"+nextPage+"\nf-spice")
	second := strings.Index(out, "j-spice\n\n"+nextPage+"\nk-spice")
	assert.True(t, first > 0, "pause after the fifth item")
	assert.True(t, second > first, "pause after the tenth item")
	assert.Contains(t, out, "l-spice\n\nIngredient Menu", "no pause after the last item")
}

func TestDriver_Paginate(t *testing.T) {
	tests := []struct {
		items  int
		size   int
		pauses int
	}{
		{0, 5, 0},
		{5, 5, 0},
		{6, 5, 1},
		{10, 5, 1},
		{11, 5, 2},
		{12, 5, 2},
		{17, 8, 2},
		{3, 0, 0},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		d := NewDriver(nil, NewTerminal(strings.NewReader(strings.Repeat("\n", 10)), &out), nil, Options{})
		items := make([]string, tt.items)
		for i := range items {
			items[i] = "item"
		}
		require.NoError(t, d.paginate(items, tt.size))
		assert.Equal(t, tt.pauses, strings.Count(out.String(), nextPage), "%d items, page size %d", tt.items, tt.size)
	}
}

func TestDriver_RecipePageSizeConfigurable(t *testing.T) {
	s := newSession(t)
	for _, r := range []string{"A", "B", "C", "D", "E"} {
		_, err := s.svc.Create(catalog.Recipes, r)
		require.NoError(t, err)
	}

	out := s.run(t, Recipes, "3\n\n\n", Options{RecipePageSize: 2})
	assert.Equal(t, 2, strings.Count(out, nextPage))
}

func TestDriver_IngredientMessages(t *testing.T) {
	script := strings.Join([]string{
		"1", "Salt",
		"1", "salt",
		"2", "SALT",
		"2", "Pepper",
		"4", "salt",
		"4", "salt",
		"5",
	}, "\n") + "\n"

	out := newSession(t).run(t, Ingredients, script, Options{})

	for _, msg := range []string{
		"'Salt' has been added.\n",
		"salt already exists.\n",
		"SALT exists.\n",
		"Pepper does not exist.\n",
		"'salt' has been deleted.\n",
		"salt does not exist.\n",
	} {
		assert.Contains(t, out, msg)
	}
}

func TestDriver_NewRecipeFlow(t *testing.T) {
	s := newSession(t)
	script := strings.Join([]string{
		"1", "Soup",
		"Salt", "", "y",
		"pepper", "n",
	}, "\n") + "\n"

	out := s.run(t, Recipes, script, Options{})

	assert.Contains(t, out, "'Soup' has been added.\n")
	assert.Equal(t, 2, strings.Count(out, "The ingredient does not exist!"))
	assert.Contains(t, out, "Ingredient not added.\n")
	assert.Contains(t, out, "'Salt' has been added.\n")

	children, err := s.svc.Children(catalog.RecipeIngredients, "Soup")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Salt", children[0].Name)

	_, err = s.svc.Lookup(catalog.Ingredients, "pepper")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDriver_NewRecipeReusesExistingIngredient(t *testing.T) {
	s := newSession(t)
	existing, err := s.svc.Create(catalog.Ingredients, "Tomato")
	require.NoError(t, err)

	out := s.run(t, Recipes, "1\nSalad\n tomato \n\n", Options{})

	assert.NotContains(t, out, "The ingredient does not exist!")
	children, err := s.svc.Children(catalog.RecipeIngredients, "Salad")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, existing.ID, children[0].ID)
}

func TestDriver_NewRecipeDuplicateAborts(t *testing.T) {
	s := newSession(t)
	_, err := s.svc.Create(catalog.Recipes, "Soup")
	require.NoError(t, err)
	commits := s.store.Commits()

	out := s.run(t, Recipes, "1\nSOUP\n", Options{})

	assert.Contains(t, out, "SOUP already exists.\n")
	assert.NotContains(t, out, "What ingredient would you like to add: ")
	assert.Equal(t, commits, s.store.Commits())
}

func TestDriver_NewRecipePartialFailure(t *testing.T) {
	s := newSession(t)
	script := strings.Join([]string{
		"1", "Stew",
		"   ", "", "y",
		"Carrot", "", "n",
	}, "\n") + "\n"

	out := s.run(t, Recipes, script, Options{})

	assert.Contains(t, out, "    does not exist.\n", "the failed attach is reported")
	assert.Contains(t, out, "'Carrot' has been added.\n", "later ingredients are still attached")

	_, err := s.svc.Lookup(catalog.Recipes, "Stew")
	require.NoError(t, err, "the recipe is not rolled back")
	children, err := s.svc.Children(catalog.RecipeIngredients, "Stew")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Carrot", children[0].Name)
}

func TestDriver_RecipeMenuOperations(t *testing.T) {
	s := newSession(t)
	_, err := s.svc.Create(catalog.Recipes, "Tiramisu")
	require.NoError(t, err)
	_, err = s.svc.Create(catalog.Recipes, "Soup")
	require.NoError(t, err)

	script := strings.Join([]string{
		"5", "Soup", "Salt",
		"5", "Soup", "Leek",
		"2", "soup",
		"6", "Soup", "pepper",
		"6", "Ghost", "Salt",
		"6", "Soup", "leek",
		"7", "Tiramisu", "Dessert",
		"7", "Soup", "Appetizer",
		"3",
		"8",
	}, "\n") + "\n"

	out := s.run(t, Recipes, script, Options{})

	assert.Contains(t, out, "soup exists.\nThe Ingredients are: \nSalt\nLeek\n")
	assert.Contains(t, out, "pepper does not exist.\n")
	assert.Contains(t, out, "Ghost does not exist.\n")
	assert.Contains(t, out, "'leek' has been removed from 'Soup'.\n")
	assert.Contains(t, out, "'Tiramisu' is now in 'Dessert'.\n")
	assert.Contains(t, out, "Known Recipes: \nSoup\nTiramisu\n")
}

func TestDriver_RestaurantMenu(t *testing.T) {
	s := newSession(t)
	script := strings.Join([]string{
		"1", "Chez Panisse",
		"5", "Chez Panisse", "Lunch",
		"5", "Ghost", "Lunch",
		"7", "Lunch", "Soup",
		"2", "chez panisse",
		"3",
		"6", "Chez Panisse", "Lunch",
		"6", "Chez Panisse", "Lunch",
		"4", "Chez Panisse",
		"8",
	}, "\n") + "\n"

	out := s.run(t, Restaurants, script, Options{})

	assert.Contains(t, out, "Restaurant Menu\n")
	assert.Contains(t, out, "'Chez Panisse' has been added.\n")
	assert.Contains(t, out, "'Lunch' has been added.\n")
	assert.Contains(t, out, "Ghost does not exist.\n")
	assert.Contains(t, out, "'Soup' has been added.\n")
	assert.Contains(t, out, "chez panisse exists.\nThe Menus are: \nLunch\n")
	assert.Contains(t, out, "Known Restaurants: \nChez Panisse\n")
	assert.Contains(t, out, "'Lunch' has been removed from 'Chez Panisse'.\n")
	assert.Contains(t, out, "Lunch does not exist.\n")
	assert.Contains(t, out, "'Chez Panisse' has been deleted.\n")

	recipes, err := s.svc.Children(catalog.MenuRecipes, "Lunch")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup", recipes[0].Name)
}

func TestDriver_StorageErrorKeepsSessionAlive(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.store.Detach())

	out := s.run(t, Ingredients, "1\nSalt\n3\n", Options{})

	assert.Equal(t, 2, strings.Count(out, "Something went wrong: "))
	assert.Equal(t, 3, countLine(out, "Ingredient Menu"))
}
