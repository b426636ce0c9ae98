// Package menu drives the interactive catalog session: numbered menus read
// validated choices from a Console and dispatch them to the catalog.
package menu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/larder/internal/catalog"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// State names a menu.
type State int

// Menu states.
const (
	Main State = iota
	Ingredients
	Recipes
	Restaurants
)

var stateNames = map[string]State{
	"main":        Main,
	"ingredients": Ingredients,
	"recipes":     Recipes,
	"restaurants": Restaurants,
}

// ParseState maps a menu name to its State.
func ParseState(s string) (State, error) {
	st, ok := stateNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Main, fmt.Errorf("unknown menu %q", s)
	}
	return st, nil
}

const (
	prompt   = "Please select an option: "
	nextPage = "Press enter for next page."

	// DefaultIngredientPageSize is the ingredient list page size.
	DefaultIngredientPageSize = 5
	// DefaultRecipePageSize is the page size of recipe and restaurant lists.
	DefaultRecipePageSize = 8
)

// Options tunes list pagination. Zero values take the defaults.
type Options struct {
	IngredientPageSize int
	RecipePageSize     int
}

// Driver runs menus against a catalog service.
type Driver struct {
	svc    *catalog.Service
	con    Console
	logger *slog.Logger
	opts   Options
}

// NewDriver creates a Driver. A nil logger discards.
func NewDriver(svc *catalog.Service, con Console, logger *slog.Logger, opts Options) *Driver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.IngredientPageSize <= 0 {
		opts.IngredientPageSize = DefaultIngredientPageSize
	}
	if opts.RecipePageSize <= 0 {
		opts.RecipePageSize = DefaultRecipePageSize
	}
	return &Driver{svc: svc, con: con, logger: logger, opts: opts}
}

// option is one numbered menu entry.
type option struct {
	label  string
	handle func() error
}

// screen is a menu: its title, entries and the label of the back entry,
// which is numbered one past the last entry.
type screen struct {
	title   string
	options []option
	back    string
}

// Run shows the start menu and returns when the operator backs out of it or
// input ends. Only console failures are returned.
func (d *Driver) Run(start State) error {
	err := d.run(start)
	if errors.Is(err, io.EOF) {
		d.logger.Info("input closed, ending session")
		return nil
	}
	return err
}

func (d *Driver) run(st State) error {
	sc := d.screen(st)
	transitions := make(map[int]func() error, len(sc.options)+1)
	for i, opt := range sc.options {
		transitions[i+1] = opt.handle
	}
	backChoice := len(sc.options) + 1
	transitions[backChoice] = nil

	for {
		d.render(sc)
		choice, err := d.choose(transitions, backChoice)
		if err != nil {
			return err
		}
		if choice == backChoice {
			d.con.Println(Plain, "")
			return nil
		}
		d.con.Println(Plain, "")
		if err := transitions[choice](); err != nil {
			return err
		}
		d.con.Println(Plain, "")
	}
}

func (d *Driver) screen(st State) screen {
	switch st {
	case Ingredients:
		return screen{title: "Ingredient Menu", back: "Back to Main Menu", options: []option{
			{"New Ingredient", d.newIngredient},
			{"Lookup Ingredient", d.lookupIngredient},
			{"Show Ingredient List", d.listIngredients},
			{"Delete Ingredient", d.deleteIngredient},
		}}
	case Recipes:
		return screen{title: "Recipe Menu", back: "Back to Main Menu", options: []option{
			{"New Recipe", d.newRecipe},
			{"Lookup Recipe", d.lookupRecipe},
			{"Show Recipe List", d.listRecipes},
			{"Delete Recipe", d.deleteRecipe},
			{"Add Ingredient to Recipe", d.addIngredientToRecipe},
			{"Remove Ingredient from Recipe", d.removeIngredientFromRecipe},
			{"Set Recipe Category", d.setRecipeCategory},
		}}
	case Restaurants:
		return screen{title: "Restaurant Menu", back: "Back to Main Menu", options: []option{
			{"New Restaurant", d.newRestaurant},
			{"Lookup Restaurant", d.lookupRestaurant},
			{"Show Restaurant List", d.listRestaurants},
			{"Delete Restaurant", d.deleteRestaurant},
			{"Add Menu to Restaurant", d.addMenuToRestaurant},
			{"Remove Menu from Restaurant", d.removeMenuFromRestaurant},
			{"Add Recipe to Menu", d.addRecipeToMenu},
		}}
	default:
		return screen{title: "Main Menu", back: "Exit", options: []option{
			{"Ingredient Menu", func() error { return d.run(Ingredients) }},
			{"Recipe Menu", func() error { return d.run(Recipes) }},
		}}
	}
}

func (d *Driver) render(sc screen) {
	d.con.Println(Title, sc.title)
	d.con.Println(Plain, "")
	for i, opt := range sc.options {
		d.con.Println(Plain, strconv.Itoa(i+1)+".) "+opt.label)
	}
	d.con.Println(Plain, "")
	d.con.Println(Danger, strconv.Itoa(len(sc.options)+1)+".) "+sc.back)
	d.con.Println(Plain, "")
}

// choose prompts until the input parses to a choice present in transitions.
func (d *Driver) choose(transitions map[int]func() error, hi int) (int, error) {
	for {
		d.con.Print(Title, prompt)
		line, err := d.con.ReadLine()
		if err != nil {
			return 0, err
		}
		n, err := ParseChoice(line, 1, hi)
		if err != nil {
			d.logger.Debug("rejected menu input", "input", line, "error", err)
			continue
		}
		if _, ok := transitions[n]; !ok {
			d.logger.Warn("choice missing from transition table", "choice", n)
			continue
		}
		return n, nil
	}
}

// ask prints a question and returns the answer line.
func (d *Driver) ask(question string) (string, error) {
	d.con.Print(Plain, question)
	return d.con.ReadLine()
}

// confirm asks a yes/no question. An empty or unrecognised answer takes def.
func (d *Driver) confirm(question string, def bool) (bool, error) {
	answer, err := d.ask(question)
	if err != nil {
		return false, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	switch answer[0] {
	case 'y', 'Y':
		return true, nil
	case 'n', 'N':
		return false, nil
	default:
		return def, nil
	}
}

// paginate prints items, pausing for one input line before every item that
// starts a new page. The last page ends without a pause.
func (d *Driver) paginate(items []string, size int) error {
	for i, item := range items {
		if i > 0 && size > 0 && i%size == 0 {
			d.con.Println(Plain, "")
			d.con.Println(Title, nextPage)
			if _, err := d.con.ReadLine(); err != nil {
				return err
			}
		}
		d.con.Println(Plain, item)
	}
	return nil
}

// report renders a catalog error as a one-line message about name.
func (d *Driver) report(err error, name string) {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrInvalidName):
		d.con.Println(Warning, name+" does not exist.")
	case errors.Is(err, types.ErrAlreadyExists):
		d.con.Println(Warning, name+" already exists.")
	default:
		d.logger.Error("catalog operation failed", "name", name, "error", err)
		d.con.Println(Danger, "Something went wrong: "+err.Error())
	}
}

func (d *Driver) added(name string) {
	d.con.Println(Success, "'"+name+"' has been added.")
}
