package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// namedTable implements types.Table for ingredients, categories, recipes,
// menus and restaurants. Uniqueness is checked on name_key and backed by a
// unique index.
type namedTable struct {
	backend *Backend
	spec    tableSpec
}

var _ types.Table = (*namedTable)(nil)

// selectColumns returns the column list used to hydrate records.
// Tables without a category column select NULL in its place.
func (nt *namedTable) selectColumns() string {
	category := "NULL"
	if nt.spec.name == types.RecipesTable {
		category = "category_id"
	}
	return fmt.Sprintf("%s, name, %s, created_at", nt.spec.idCol, category)
}

// Get retrieves a record by ID.
func (nt *namedTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	nt.backend.mu.RLock()
	defer nt.backend.mu.RUnlock()
	if !nt.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := nt.backend.db.QueryRow(fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ?", nt.selectColumns(), nt.spec.name, nt.spec.idCol), id)
	n, err := nt.hydrate(row)
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", nt.spec.name, id, err)
	}
	return n, nil
}

// FindByName retrieves the record whose name_key matches Normalize(name).
func (nt *namedTable) FindByName(name string) (any, error) {
	if err := types.ValidateName(name); err != nil {
		return nil, err
	}
	nt.backend.mu.RLock()
	defer nt.backend.mu.RUnlock()
	if !nt.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := nt.backend.db.QueryRow(fmt.Sprintf(
		"SELECT %s FROM %s WHERE name_key = ?", nt.selectColumns(), nt.spec.name), types.Normalize(name))
	n, err := nt.hydrate(row)
	if err != nil {
		return nil, fmt.Errorf("finding %s %q: %w", nt.spec.name, name, err)
	}
	return n, nil
}

// Add inserts a new record with a fresh UUID v7 and sets it on data.
func (nt *namedTable) Add(data any) (string, error) {
	n, err := nt.entity(data)
	if err != nil {
		return "", err
	}

	nt.backend.mu.Lock()
	defer nt.backend.mu.Unlock()
	if !nt.backend.attached {
		return "", types.ErrStoreDetached
	}

	key := types.Normalize(n.EntityName())
	if err := nt.checkUnique(key, ""); err != nil {
		return "", err
	}

	id, err := newUUID()
	if err != nil {
		return "", err
	}
	created := creationTime(n)

	if nt.spec.name == types.RecipesTable {
		_, err = nt.backend.db.Exec(
			"INSERT INTO recipes (recipe_id, name, name_key, category_id, created_at) VALUES (?, ?, ?, ?, ?)",
			id, n.EntityName(), key, nullString(n.(*types.Recipe).CategoryID), created.Format(time.RFC3339Nano))
	} else {
		_, err = nt.backend.db.Exec(fmt.Sprintf(
			"INSERT INTO %s (%s, name, name_key, created_at) VALUES (?, ?, ?, ?)", nt.spec.name, nt.spec.idCol),
			id, n.EntityName(), key, created.Format(time.RFC3339Nano))
	}
	if err != nil {
		return "", fmt.Errorf("inserting %s: %w", nt.spec.name, err)
	}

	n.SetEntityID(id)
	n.SetEntityCreatedAt(created)
	nt.backend.markDirty(nt.spec.name)
	return id, nil
}

// Update replaces the name (and category, for recipes) of an existing record.
func (nt *namedTable) Update(id string, data any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	n, err := nt.entity(data)
	if err != nil {
		return err
	}

	nt.backend.mu.Lock()
	defer nt.backend.mu.Unlock()
	if !nt.backend.attached {
		return types.ErrStoreDetached
	}

	if err := nt.checkExists(id); err != nil {
		return err
	}
	key := types.Normalize(n.EntityName())
	if err := nt.checkUnique(key, id); err != nil {
		return err
	}

	if nt.spec.name == types.RecipesTable {
		_, err = nt.backend.db.Exec(
			"UPDATE recipes SET name = ?, name_key = ?, category_id = ? WHERE recipe_id = ?",
			n.EntityName(), key, nullString(n.(*types.Recipe).CategoryID), id)
	} else {
		_, err = nt.backend.db.Exec(fmt.Sprintf(
			"UPDATE %s SET name = ?, name_key = ? WHERE %s = ?", nt.spec.name, nt.spec.idCol),
			n.EntityName(), key, id)
	}
	if err != nil {
		return fmt.Errorf("updating %s: %w", nt.spec.name, err)
	}

	n.SetEntityID(id)
	nt.backend.markDirty(nt.spec.name)
	return nil
}

// Remove deletes a record by ID. Links are not touched.
func (nt *namedTable) Remove(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	nt.backend.mu.Lock()
	defer nt.backend.mu.Unlock()
	if !nt.backend.attached {
		return types.ErrStoreDetached
	}

	if err := nt.checkExists(id); err != nil {
		return err
	}
	if _, err := nt.backend.db.Exec(fmt.Sprintf(
		"DELETE FROM %s WHERE %s = ?", nt.spec.name, nt.spec.idCol), id); err != nil {
		return fmt.Errorf("deleting %s: %w", nt.spec.name, err)
	}

	nt.backend.markDirty(nt.spec.name)
	return nil
}

// Fetch returns records ordered by name_key. Supported filter keys:
// category_id (recipes only), limit, offset.
func (nt *namedTable) Fetch(filter types.Filter) ([]any, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", nt.selectColumns(), nt.spec.name)
	var args []any

	if v, ok := filter["category_id"]; ok {
		s, ok := v.(string)
		if !ok || nt.spec.name != types.RecipesTable {
			return nil, types.ErrInvalidFilter
		}
		query += " WHERE category_id = ?"
		args = append(args, s)
	}
	query += " ORDER BY name_key"

	page, err := pageClause(filter)
	if err != nil {
		return nil, err
	}
	query += page

	nt.backend.mu.RLock()
	defer nt.backend.mu.RUnlock()
	if !nt.backend.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := nt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", nt.spec.name, err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		n, err := nt.hydrate(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating %s: %w", nt.spec.name, err)
		}
		results = append(results, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", nt.spec.name, err)
	}
	return results, nil
}

// entity checks that data is a named entity of this table's kind with a
// valid name.
func (nt *namedTable) entity(data any) (types.Named, error) {
	n, ok := data.(types.Named)
	if !ok || n == nil || types.TableOf(n) != nt.spec.name {
		return nil, types.ErrInvalidData
	}
	if err := types.ValidateName(n.EntityName()); err != nil {
		return nil, err
	}
	return n, nil
}

// checkUnique returns ErrAlreadyExists when another record holds key.
// The caller must hold the backend lock.
func (nt *namedTable) checkUnique(key, exceptID string) error {
	var dupID string
	err := nt.backend.db.QueryRow(fmt.Sprintf(
		"SELECT %s FROM %s WHERE name_key = ? AND %s != ?", nt.spec.idCol, nt.spec.name, nt.spec.idCol),
		key, exceptID).Scan(&dupID)
	if err == nil {
		return types.ErrAlreadyExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking %s name uniqueness: %w", nt.spec.name, err)
	}
	return nil
}

// checkExists returns ErrNotFound when no record has id.
// The caller must hold the backend lock.
func (nt *namedTable) checkExists(id string) error {
	var one int
	err := nt.backend.db.QueryRow(fmt.Sprintf(
		"SELECT 1 FROM %s WHERE %s = ?", nt.spec.name, nt.spec.idCol), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking %s existence: %w", nt.spec.name, err)
	}
	return nil
}

// creationTime returns the entity's creation time in UTC, defaulting to now.
func creationTime(n types.Named) time.Time {
	t := n.EntityCreatedAt()
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC()
}

// hydrate converts one row into the table's entity type.
func (nt *namedTable) hydrate(row interface{ Scan(...any) error }) (types.Named, error) {
	var id, name, createdAt string
	var categoryID sql.NullString
	if err := row.Scan(&id, &name, &categoryID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	n, err := types.NewNamed(nt.spec.name, name)
	if err != nil {
		return nil, err
	}
	n.SetEntityID(id)
	n.SetEntityCreatedAt(ts)
	if r, ok := n.(*types.Recipe); ok {
		r.CategoryID = categoryID.String
	}
	return n, nil
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// pageClause builds LIMIT/OFFSET from the filter.
func pageClause(filter types.Filter) (string, error) {
	var clause string
	limit, hasLimit := filter["limit"]
	if hasLimit {
		l, ok := toInt(limit)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if l > 0 {
			clause += fmt.Sprintf(" LIMIT %d", l)
		}
	}
	if offset, ok := filter["offset"]; ok {
		o, ok := toInt(offset)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if o > 0 {
			if clause == "" {
				clause = " LIMIT -1"
			}
			clause += fmt.Sprintf(" OFFSET %d", o)
		}
	}
	return clause, nil
}

// toInt converts various numeric types to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
