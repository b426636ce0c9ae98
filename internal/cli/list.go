package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/catalog"
)

func newListCmd(f *rootFlags) *cobra.Command {
	var (
		jsonMode bool
		sortBy   string
	)
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List every entity of a kind",
		Long: `List prints all entities of one kind with their associations.

Valid kinds: ingredients, recipes, categories, menus, restaurants

Example:
  larder list recipes --sort category
  larder list restaurants --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := catalog.ParseKind(args[0])
			if err != nil {
				return userError("%s", err)
			}
			key, err := parseSortKey(sortBy)
			if err != nil {
				return userError("%s", err)
			}

			env, err := openEnv(f)
			if err != nil {
				return err
			}
			defer env.close()

			details, err := env.catalog.ListAll(kind, key)
			if err != nil {
				return sysError("list %s: %s", kind, err)
			}
			if jsonMode {
				return writeJSON(cmd.OutOrStdout(), details)
			}
			writeText(cmd.OutOrStdout(), details)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "sort order: name or category")
	return cmd
}

func parseSortKey(s string) (catalog.SortKey, error) {
	switch strings.ToLower(s) {
	case "name":
		return catalog.SortByName, nil
	case "category":
		return catalog.SortByCategory, nil
	default:
		return catalog.SortByName, fmt.Errorf("unknown sort %q (valid: name, category)", s)
	}
}

func writeJSON(w io.Writer, details []catalog.Detail) error {
	out, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return sysError("marshal: %s", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// writeText prints one entity per line: name, category in brackets, then
// children after a colon.
func writeText(w io.Writer, details []catalog.Detail) {
	for _, d := range details {
		line := d.Name
		if d.Category != "" {
			line += " [" + d.Category + "]"
		}
		if len(d.Children) > 0 {
			names := make([]string, len(d.Children))
			for i, c := range d.Children {
				names[i] = c.Name
			}
			line += ": " + strings.Join(names, ", ")
		}
		fmt.Fprintln(w, line)
	}
}
