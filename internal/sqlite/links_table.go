package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var _ types.Table = (*linksTable)(nil)

// linksTable stores association records. A link is unique on
// (link_type, from_id, to_id); Add appends it after the parent's last child.
type linksTable struct {
	backend *Backend
}

const linkColumns = "link_id, link_type, from_id, to_id, position, created_at"

// Get retrieves a link by ID.
func (lt *linksTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	lt.backend.mu.RLock()
	defer lt.backend.mu.RUnlock()
	if !lt.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := lt.backend.db.QueryRow("SELECT "+linkColumns+" FROM links WHERE link_id = ?", id)
	link, err := hydrateLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting link %s: %w", id, err)
	}
	return link, nil
}

// FindByName is not supported: links have no name.
func (lt *linksTable) FindByName(string) (any, error) {
	return nil, types.ErrInvalidData
}

// Add persists a new link with a UUID v7 and the next free position among
// the parent's links of the same type.
func (lt *linksTable) Add(data any) (string, error) {
	link, err := validLink(data)
	if err != nil {
		return "", err
	}

	lt.backend.mu.Lock()
	defer lt.backend.mu.Unlock()
	if !lt.backend.attached {
		return "", types.ErrStoreDetached
	}

	if err := lt.checkUnique(link, ""); err != nil {
		return "", err
	}

	var next int
	if err := lt.backend.db.QueryRow(
		"SELECT COALESCE(MAX(position) + 1, 0) FROM links WHERE link_type = ? AND from_id = ?",
		link.LinkType, link.FromID,
	).Scan(&next); err != nil {
		return "", fmt.Errorf("computing link position: %w", err)
	}

	id, err := newUUID()
	if err != nil {
		return "", err
	}
	created := link.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	if _, err := lt.backend.db.Exec(
		"INSERT INTO links ("+linkColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		id, link.LinkType, link.FromID, link.ToID, next, created.Format(time.RFC3339Nano),
	); err != nil {
		return "", fmt.Errorf("persisting link: %w", err)
	}

	link.LinkID = id
	link.Position = next
	link.CreatedAt = created
	lt.backend.markDirty(types.LinksTable)
	return id, nil
}

// Update rewrites an existing link, keeping the uniqueness rule.
func (lt *linksTable) Update(id string, data any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	link, err := validLink(data)
	if err != nil {
		return err
	}

	lt.backend.mu.Lock()
	defer lt.backend.mu.Unlock()
	if !lt.backend.attached {
		return types.ErrStoreDetached
	}

	if err := lt.checkExists(id); err != nil {
		return err
	}
	if err := lt.checkUnique(link, id); err != nil {
		return err
	}
	if _, err := lt.backend.db.Exec(
		"UPDATE links SET link_type = ?, from_id = ?, to_id = ?, position = ? WHERE link_id = ?",
		link.LinkType, link.FromID, link.ToID, link.Position, id,
	); err != nil {
		return fmt.Errorf("updating link: %w", err)
	}

	link.LinkID = id
	lt.backend.markDirty(types.LinksTable)
	return nil
}

// Remove deletes a link by ID.
func (lt *linksTable) Remove(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	lt.backend.mu.Lock()
	defer lt.backend.mu.Unlock()
	if !lt.backend.attached {
		return types.ErrStoreDetached
	}

	if err := lt.checkExists(id); err != nil {
		return err
	}
	if _, err := lt.backend.db.Exec("DELETE FROM links WHERE link_id = ?", id); err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}

	lt.backend.markDirty(types.LinksTable)
	return nil
}

// Fetch queries links matching the filter, ordered by parent then position.
// Supported filter keys: link_type, from_id, to_id, limit, offset.
func (lt *linksTable) Fetch(filter types.Filter) ([]any, error) {
	query := "SELECT " + linkColumns + " FROM links"
	var conditions []string
	var args []any

	for _, key := range []string{"link_type", "from_id", "to_id"} {
		v, ok := filter[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, key+" = ?")
		args = append(args, s)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY from_id, position, created_at"

	page, err := pageClause(filter)
	if err != nil {
		return nil, err
	}
	query += page

	lt.backend.mu.RLock()
	defer lt.backend.mu.RUnlock()
	if !lt.backend.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := lt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching links: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		link, err := hydrateLink(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating link: %w", err)
		}
		results = append(results, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return results, nil
}

// checkUnique returns ErrAlreadyExists when another link has the same
// (link_type, from_id, to_id). The caller must hold the backend lock.
func (lt *linksTable) checkUnique(link *types.Link, exceptID string) error {
	var dupID string
	err := lt.backend.db.QueryRow(
		"SELECT link_id FROM links WHERE link_type = ? AND from_id = ? AND to_id = ? AND link_id != ?",
		link.LinkType, link.FromID, link.ToID, exceptID,
	).Scan(&dupID)
	if err == nil {
		return types.ErrAlreadyExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking link uniqueness: %w", err)
	}
	return nil
}

// checkExists returns ErrNotFound when no link has id.
func (lt *linksTable) checkExists(id string) error {
	var one int
	err := lt.backend.db.QueryRow("SELECT 1 FROM links WHERE link_id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking link existence: %w", err)
	}
	return nil
}

// validLink asserts data is a well-formed *types.Link.
func validLink(data any) (*types.Link, error) {
	link, ok := data.(*types.Link)
	if !ok || link == nil {
		return nil, types.ErrInvalidData
	}
	if !types.ValidLinkType(link.LinkType) || link.FromID == "" || link.ToID == "" {
		return nil, types.ErrInvalidData
	}
	return link, nil
}

// hydrateLink converts a row into a *types.Link.
func hydrateLink(row interface{ Scan(...any) error }) (*types.Link, error) {
	var l types.Link
	var createdAt string
	if err := row.Scan(&l.LinkID, &l.LinkType, &l.FromID, &l.ToID, &l.Position, &createdAt); err != nil {
		return nil, err
	}
	var err error
	l.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &l, nil
}
