package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// loadAllJSONL reads each table's JSONL file from dataDir and inserts the
// records into SQLite. Loading is transactional: all tables load or none do.
// Malformed lines and records that break a constraint are skipped; unknown
// fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, spec := range tableSpecs {
		records, err := readJSONL(filepath.Join(dataDir, spec.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", spec.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, spec, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", spec.file, spec.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into one table. For named
// tables the name_key column is recomputed from name.
func insertRecords(tx *sql.Tx, spec tableSpec, records []json.RawMessage) error {
	columns := spec.columns
	if spec.named {
		columns = append(append([]string{}, columns...), "name_key")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		spec.name, strings.Join(columns, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", spec.name, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}

		args := make([]any, 0, len(columns))
		for _, col := range spec.columns {
			args = append(args, columnValue(obj[col]))
		}
		if spec.named {
			name, _ := obj["name"].(string)
			if types.ValidateName(name) != nil {
				continue
			}
			args = append(args, types.Normalize(name))
		}

		if _, err := stmt.Exec(args...); err != nil {
			// Constraint violations (duplicate names, missing columns) skip
			// the record rather than failing the whole load.
			continue
		}
	}
	return nil
}

// columnValue converts a decoded JSON value into a SQLite argument. Whole
// numbers decode as float64 and go back in as integers.
func columnValue(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) {
		return int64(f)
	}
	return v
}
