// Package cli implements the larder command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/menu"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by the root command to a process exit
// code. Errors without a code are user errors, as cobra reports bad flags
// and arguments that way.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	menu      string
}

// NewRootCmd creates the "larder" command. Run without a subcommand it
// starts the interactive session.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "larder",
		Short: "A menu-driven catalog of recipes, ingredients and restaurants",
		Long: "Larder keeps recipes with their ingredients and categories, and\n" +
			"restaurants with their menus, in a local store driven from the terminal.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, f)
		},
	}

	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "data directory (default: .larder-db)")
	root.Flags().StringVar(&f.menu, "menu", "main", "starting menu: main, ingredients, recipes or restaurants")

	root.AddCommand(newInitCmd(f))
	root.AddCommand(newListCmd(f))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCode(err))
	}
}

func runSession(cmd *cobra.Command, f *rootFlags) error {
	start, err := menu.ParseState(f.menu)
	if err != nil {
		return userError("%s", err)
	}

	env, err := openEnv(f)
	if err != nil {
		return err
	}
	defer env.close()

	term := menu.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	driver := menu.NewDriver(env.catalog, term, env.logger, menu.Options{
		IngredientPageSize: env.settings.IngredientPageSize,
		RecipePageSize:     env.settings.RecipePageSize,
	})
	env.logger.Info("session started", "menu", f.menu, "data_dir", env.settings.DataDir)
	if err := driver.Run(start); err != nil {
		return sysError("session: %s", err)
	}
	return nil
}
