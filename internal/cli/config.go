package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/larder/internal/menu"
	"github.com/mesh-intelligence/larder/internal/paths"
	"github.com/mesh-intelligence/larder/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend            = "backend"
	cfgKeyDataDir            = "data_dir"
	cfgKeyLogLevel           = "log_level"
	cfgKeyLogFile            = "log_file"
	cfgKeyIngredientPageSize = "ingredient_page_size"
	cfgKeyRecipePageSize     = "recipe_page_size"

	envLogLevel = "LARDER_LOG_LEVEL"
)

// settings is the resolved configuration for one command run.
type settings struct {
	ConfigDir          string
	Backend            string
	DataDir            string
	LogLevel           string
	LogFile            string
	IngredientPageSize int
	RecipePageSize     int
}

// configFile is the structure written to config.yaml by "larder init".
type configFile struct {
	Backend            string `yaml:"backend"`
	DataDir            string `yaml:"data_dir,omitempty"`
	LogLevel           string `yaml:"log_level"`
	LogFile            string `yaml:"log_file,omitempty"`
	IngredientPageSize int    `yaml:"ingredient_page_size"`
	RecipePageSize     int    `yaml:"recipe_page_size"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:            types.BackendSQLite,
		LogLevel:           "info",
		IngredientPageSize: menu.DefaultIngredientPageSize,
		RecipePageSize:     menu.DefaultRecipePageSize,
	}
}

// loadSettings resolves directories and reads config.yaml with Viper. A
// missing config.yaml is not an error.
func loadSettings(f *rootFlags) (*settings, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return nil, sysError("resolve config dir: %s", err)
	}

	def := defaultConfigFile()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyIngredientPageSize, def.IngredientPageSize)
	v.SetDefault(cfgKeyRecipePageSize, def.RecipePageSize)
	if err := v.BindEnv(cfgKeyLogLevel, envLogLevel); err != nil {
		return nil, sysError("bind env: %s", err)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, userError("read config: %s", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, sysError("resolve data dir: %s", err)
	}

	s := &settings{
		ConfigDir:          configDir,
		Backend:            v.GetString(cfgKeyBackend),
		DataDir:            dataDir,
		LogLevel:           v.GetString(cfgKeyLogLevel),
		LogFile:            v.GetString(cfgKeyLogFile),
		IngredientPageSize: v.GetInt(cfgKeyIngredientPageSize),
		RecipePageSize:     v.GetInt(cfgKeyRecipePageSize),
	}
	if s.LogFile == "" {
		s.LogFile = paths.LogFile(dataDir)
	}
	if err := s.storeConfig().Validate(); err != nil {
		return nil, userError("config: %s", err)
	}
	if s.IngredientPageSize < 1 || s.RecipePageSize < 1 {
		return nil, userError("page sizes must be positive")
	}
	return s, nil
}

func (s *settings) storeConfig() types.Config {
	return types.Config{Backend: s.Backend, DataDir: s.DataDir}
}

func (s *settings) String() string {
	return fmt.Sprintf("backend=%s data_dir=%s", s.Backend, s.DataDir)
}
