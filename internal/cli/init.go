package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/larder/internal/paths"
	"github.com/mesh-intelligence/larder/pkg/store"
	"github.com/mesh-intelligence/larder/pkg/types"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize larder storage",
		Long:  "Create the configuration and data directories, write a default config.yaml\nif none exists, and create the empty store files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, f)
		},
	}
}

func runInit(cmd *cobra.Command, f *rootFlags) error {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return sysError("resolve config dir: %s", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError("create config directory: %s", err)
	}

	cfg := defaultConfigFile()
	cfg.DataDir = f.dataDir
	if err := writeConfigIfMissing(paths.ConfigFile(configDir), cfg); err != nil {
		return sysError("write config: %s", err)
	}

	s, err := loadSettings(f)
	if err != nil {
		return err
	}
	if s.Backend == types.BackendSQLite {
		st, err := store.Open(s.storeConfig())
		if err != nil {
			return sysError("initialize storage: %s", err)
		}
		if err := st.Detach(); err != nil {
			return sysError("finalize storage: %s", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Larder initialized in %s\n", s.DataDir)
	return nil
}

// writeConfigIfMissing writes cfg to path unless the file already exists.
func writeConfigIfMissing(path string, cfg configFile) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
