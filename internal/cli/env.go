package cli

import (
	"log/slog"
	"os"

	"github.com/mesh-intelligence/larder/internal/catalog"
	"github.com/mesh-intelligence/larder/internal/logging"
	"github.com/mesh-intelligence/larder/pkg/store"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// env bundles what a command needs to talk to the catalog.
type env struct {
	settings *settings
	logger   *slog.Logger
	logFile  *os.File
	store    types.Store
	catalog  *catalog.Service
}

// openEnv loads settings, opens the log file and attaches the store.
func openEnv(f *rootFlags) (*env, error) {
	s, err := loadSettings(f)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, userError("config log_level: %s", err)
	}
	logger, logFile, err := logging.OpenFile(s.LogFile, level)
	if err != nil {
		return nil, sysError("%s", err)
	}

	st, err := store.Open(s.storeConfig())
	if err != nil {
		logFile.Close()
		return nil, sysError("attach store: %s", err)
	}
	svc, err := catalog.New(st, logger)
	if err != nil {
		st.Detach()
		logFile.Close()
		return nil, sysError("%s", err)
	}
	logger.Debug("store attached", "settings", s.String())
	return &env{settings: s, logger: logger, logFile: logFile, store: st, catalog: svc}, nil
}

func (e *env) close() {
	if err := e.store.Detach(); err != nil {
		e.logger.Error("detach store", "error", err)
	}
	e.logFile.Close()
}
