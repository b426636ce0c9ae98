package types

import (
	"errors"
	"fmt"
)

// Config selects the record store backend. DataDir is the directory holding
// the JSONL files and the rebuilt larder.db; the memory backend ignores it.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Backend names accepted by Validate.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists every backend name in the order the CLI documents them.
var Backends = []string{BackendSQLite, BackendMemory}

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// Validate reports ErrBackendEmpty or ErrBackendUnknown (wrapped with the
// offending name) when the backend cannot be served.
func (c Config) Validate() error {
	switch c.Backend {
	case "":
		return ErrBackendEmpty
	case BackendSQLite, BackendMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrBackendUnknown, c.Backend)
	}
}
