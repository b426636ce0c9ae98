// Package memory provides an in-memory implementation of types.Store used for
// tests and ephemeral sessions. Records live only as long as the attachment;
// Commit counts flushes so callers can observe persistence behaviour.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Compile-time contract assertions.
var (
	_ types.Store = (*Store)(nil)
	_ types.Table = (*table)(nil)
)

// Store keeps every table in maps guarded by a single RWMutex.
type Store struct {
	mu       sync.RWMutex
	attached bool
	tables   map[string]*table
	pending  int
	commits  int
}

// New returns a detached in-memory store.
func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

// Attach validates config and starts from empty tables.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	s.tables = make(map[string]*table, len(types.StandardTableNames))
	for _, name := range types.StandardTableNames {
		s.tables[name] = &table{store: s, name: name, rows: make(map[string]any)}
	}
	s.pending = 0
	s.commits = 0
	s.attached = true
	return nil
}

// GetTable returns the named table.
func (s *Store) GetTable(name string) (types.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	t, ok := s.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

// Commit marks pending mutations as flushed.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	s.pending = 0
	s.commits++
	return nil
}

// Detach drops all records. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attached = false
	s.tables = make(map[string]*table)
	return nil
}

// Commits returns how many times Commit succeeded since Attach.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Pending returns the number of mutations not yet committed.
func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

type table struct {
	store *Store
	name  string
	rows  map[string]any
}

func (t *table) named() bool {
	return types.IsNamedTable(t.name)
}

func (t *table) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if !t.store.attached {
		return nil, types.ErrStoreDetached
	}

	row, ok := t.rows[id]
	if !ok {
		return nil, fmt.Errorf("getting %s %s: %w", t.name, id, types.ErrNotFound)
	}
	return clone(row), nil
}

func (t *table) FindByName(name string) (any, error) {
	if !t.named() {
		return nil, types.ErrInvalidData
	}
	if err := types.ValidateName(name); err != nil {
		return nil, err
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if !t.store.attached {
		return nil, types.ErrStoreDetached
	}

	if row := t.byKey(types.Normalize(name), ""); row != nil {
		return clone(row), nil
	}
	return nil, fmt.Errorf("finding %s %q: %w", t.name, name, types.ErrNotFound)
}

func (t *table) Add(data any) (string, error) {
	if err := t.validate(data); err != nil {
		return "", err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if !t.store.attached {
		return "", types.ErrStoreDetached
	}
	if t.conflicts(data, "") {
		return "", types.ErrAlreadyExists
	}

	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID: %w", err)
	}
	id := u.String()
	now := time.Now().UTC()

	switch rec := data.(type) {
	case *types.Link:
		rec.LinkID = id
		rec.Position = t.nextPosition(rec.LinkType, rec.FromID)
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
	case types.Named:
		rec.SetEntityID(id)
		if rec.EntityCreatedAt().IsZero() {
			rec.SetEntityCreatedAt(now)
		}
	}

	t.rows[id] = clone(data)
	t.store.pending++
	return id, nil
}

func (t *table) Update(id string, data any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if err := t.validate(data); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if !t.store.attached {
		return types.ErrStoreDetached
	}

	old, ok := t.rows[id]
	if !ok {
		return types.ErrNotFound
	}
	if t.conflicts(data, id) {
		return types.ErrAlreadyExists
	}

	switch rec := data.(type) {
	case *types.Link:
		rec.LinkID = id
		rec.CreatedAt = old.(*types.Link).CreatedAt
	case types.Named:
		rec.SetEntityID(id)
		rec.SetEntityCreatedAt(old.(types.Named).EntityCreatedAt())
	}

	t.rows[id] = clone(data)
	t.store.pending++
	return nil
}

func (t *table) Remove(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if !t.store.attached {
		return types.ErrStoreDetached
	}

	if _, ok := t.rows[id]; !ok {
		return types.ErrNotFound
	}
	delete(t.rows, id)
	t.store.pending++
	return nil
}

func (t *table) Fetch(filter types.Filter) ([]any, error) {
	match, err := t.matcher(filter)
	if err != nil {
		return nil, err
	}
	limit, offset, err := paging(filter)
	if err != nil {
		return nil, err
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if !t.store.attached {
		return nil, types.ErrStoreDetached
	}

	results := []any{}
	for _, row := range t.rows {
		if match(row) {
			results = append(results, clone(row))
		}
	}
	sort.Slice(results, func(i, j int) bool { return less(results[i], results[j]) })

	if offset > len(results) {
		offset = len(results)
	}
	results = results[offset:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

// validate checks that data belongs in this table.
func (t *table) validate(data any) error {
	if t.name == types.LinksTable {
		l, ok := data.(*types.Link)
		if !ok || l == nil || !types.ValidLinkType(l.LinkType) || l.FromID == "" || l.ToID == "" {
			return types.ErrInvalidData
		}
		return nil
	}
	n, ok := data.(types.Named)
	if !ok || n == nil || types.TableOf(n) != t.name {
		return types.ErrInvalidData
	}
	return types.ValidateName(n.EntityName())
}

// conflicts reports whether data would break the table's uniqueness rule
// against any row other than exceptID. The caller must hold the lock.
func (t *table) conflicts(data any, exceptID string) bool {
	if l, ok := data.(*types.Link); ok {
		for id, row := range t.rows {
			r := row.(*types.Link)
			if id != exceptID && r.LinkType == l.LinkType && r.FromID == l.FromID && r.ToID == l.ToID {
				return true
			}
		}
		return false
	}
	return t.byKey(types.Normalize(data.(types.Named).EntityName()), exceptID) != nil
}

// byKey returns the row whose normalized name is key, skipping exceptID.
func (t *table) byKey(key, exceptID string) any {
	for id, row := range t.rows {
		if id == exceptID {
			continue
		}
		if types.Normalize(row.(types.Named).EntityName()) == key {
			return row
		}
	}
	return nil
}

// nextPosition returns one past the highest position among the parent's
// links of linkType. The caller must hold the lock.
func (t *table) nextPosition(linkType, fromID string) int {
	next := 0
	for _, row := range t.rows {
		l := row.(*types.Link)
		if l.LinkType == linkType && l.FromID == fromID && l.Position >= next {
			next = l.Position + 1
		}
	}
	return next
}

// matcher builds a row predicate from the filter's column keys.
func (t *table) matcher(filter types.Filter) (func(any) bool, error) {
	want := map[string]string{}
	for key, v := range filter {
		if key == "limit" || key == "offset" {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		switch {
		case t.name == types.LinksTable && (key == "link_type" || key == "from_id" || key == "to_id"):
		case t.name == types.RecipesTable && key == "category_id":
		default:
			return nil, types.ErrInvalidFilter
		}
		want[key] = s
	}

	return func(row any) bool {
		for key, v := range want {
			if field(row, key) != v {
				return false
			}
		}
		return true
	}, nil
}

func field(row any, key string) string {
	switch r := row.(type) {
	case *types.Link:
		switch key {
		case "link_type":
			return r.LinkType
		case "from_id":
			return r.FromID
		case "to_id":
			return r.ToID
		}
	case *types.Recipe:
		if key == "category_id" {
			return r.CategoryID
		}
	}
	return ""
}

func paging(filter types.Filter) (limit, offset int, err error) {
	for key, dst := range map[string]*int{"limit": &limit, "offset": &offset} {
		v, ok := filter[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int:
			*dst = n
		case int64:
			*dst = int(n)
		case float64:
			*dst = int(n)
		default:
			return 0, 0, types.ErrInvalidFilter
		}
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, nil
}

// less orders named rows by normalized name and links by parent, position
// and creation time.
func less(a, b any) bool {
	if la, ok := a.(*types.Link); ok {
		lb := b.(*types.Link)
		if la.FromID != lb.FromID {
			return la.FromID < lb.FromID
		}
		if la.Position != lb.Position {
			return la.Position < lb.Position
		}
		return la.CreatedAt.Before(lb.CreatedAt)
	}
	return types.Normalize(a.(types.Named).EntityName()) < types.Normalize(b.(types.Named).EntityName())
}

func clone(row any) any {
	if l, ok := row.(*types.Link); ok {
		c := *l
		return &c
	}
	return types.CloneNamed(row.(types.Named))
}
