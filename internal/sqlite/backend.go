package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// dbFileName is the SQLite file rebuilt from JSONL on every Attach.
const dbFileName = "larder.db"

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store using SQLite as the query engine and JSONL
// files as the source of truth. Mutations land in SQLite immediately and
// mark their table dirty; Commit rewrites the JSONL file of each dirty
// table.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]types.Table
	dirty    map[string]bool
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]types.Table),
		dirty:  make(map[string]bool),
	}
}

// GetTable returns the Table for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach creates DataDir if needed, builds a fresh SQLite schema, loads every
// JSONL file into it and creates the table accessors.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if config.DataDir == "" {
		config.DataDir = "."
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is a cache of the JSONL files; start from scratch.
	dbPath := filepath.Join(config.DataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := initJSONLFiles(config.DataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, config.DataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dirty = make(map[string]bool)
	b.attached = true

	for _, spec := range tableSpecs {
		if spec.named {
			b.tables[spec.name] = &namedTable{backend: b, spec: spec}
		} else {
			b.tables[spec.name] = &linksTable{backend: b}
		}
	}
	return nil
}

// Commit writes the JSONL file of every table mutated since the last Commit.
// Each file is replaced atomically. On error the remaining tables stay dirty
// and the next Commit retries them.
func (b *Backend) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	return b.commitLocked()
}

// commitLocked flushes dirty tables. The caller must hold b.mu.
func (b *Backend) commitLocked() error {
	for _, spec := range tableSpecs {
		if !b.dirty[spec.name] {
			continue
		}
		if err := persistTableJSONL(b.db, b.config.DataDir, spec); err != nil {
			return fmt.Errorf("commit %s: %w", spec.name, err)
		}
		delete(b.dirty, spec.name)
	}
	return nil
}

// Detach flushes pending mutations and closes the SQLite connection.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.commitLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}
	if err := b.db.Close(); err != nil {
		return err
	}

	b.db = nil
	b.attached = false
	b.tables = make(map[string]types.Table)
	return nil
}

// markDirty records that table needs to be flushed on Commit.
// The caller must hold b.mu.
func (b *Backend) markDirty(table string) {
	b.dirty[table] = true
}

// newUUID generates a UUID v7 string.
func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}
