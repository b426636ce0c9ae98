package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Service implements resolve-or-create, attach, detach and cascade delete on
// top of a types.Store. Each call that mutates the store commits before it
// returns.
type Service struct {
	store  types.Store
	logger *slog.Logger
}

// New creates a Service over an attached store. A nil logger discards.
func New(store types.Store, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("catalog: nil store")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, logger: logger}, nil
}

func (s *Service) table(k Kind) (types.Table, error) {
	t, err := s.store.GetTable(string(k))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", k, err)
	}
	return t, nil
}

// commit flushes the store after a mutation and logs it.
func (s *Service) commit(msg string, args ...any) error {
	if err := s.store.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info(msg, args...)
	return nil
}

// find returns the entity of kind k whose normalized name matches name.
func (s *Service) find(k Kind, name string) (types.Named, error) {
	if err := types.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%s name %q: %w", k.Singular(), name, err)
	}
	t, err := s.table(k)
	if err != nil {
		return nil, err
	}
	rec, err := t.FindByName(name)
	if errors.Is(err, types.ErrNotFound) {
		s.logger.Debug("lookup of missing entity", "kind", k.Singular(), "name", name)
		return nil, fmt.Errorf("%s %q: %w", k.Singular(), name, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec.(types.Named), nil
}

func ref(k Kind, n types.Named) Ref {
	return Ref{Kind: k, ID: n.EntityID(), Name: n.EntityName()}
}

// Lookup returns the entity of kind k named name under normalization.
// Returns ErrNotFound when there is none.
func (s *Service) Lookup(k Kind, name string) (Ref, error) {
	n, err := s.find(k, name)
	if err != nil {
		return Ref{}, err
	}
	return ref(k, n), nil
}

// ResolveOrCreate returns the existing entity matching name, or creates one
// with name exactly as given. The bool reports whether a record was created.
func (s *Service) ResolveOrCreate(k Kind, name string) (Ref, bool, error) {
	n, err := s.find(k, name)
	if err == nil {
		return ref(k, n), false, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return Ref{}, false, err
	}
	r, err := s.add(k, name)
	if err != nil {
		return Ref{}, false, err
	}
	return r, true, nil
}

// Create adds a new entity. Returns ErrAlreadyExists when the normalized
// name is taken; nothing is written in that case.
func (s *Service) Create(k Kind, name string) (Ref, error) {
	_, err := s.find(k, name)
	if err == nil {
		return Ref{}, fmt.Errorf("%s %q: %w", k.Singular(), name, types.ErrAlreadyExists)
	}
	if !errors.Is(err, types.ErrNotFound) {
		return Ref{}, err
	}
	return s.add(k, name)
}

func (s *Service) add(k Kind, name string) (Ref, error) {
	t, err := s.table(k)
	if err != nil {
		return Ref{}, err
	}
	n, err := types.NewNamed(string(k), name)
	if err != nil {
		return Ref{}, err
	}
	if _, err := t.Add(n); err != nil {
		return Ref{}, fmt.Errorf("adding %s %q: %w", k.Singular(), name, err)
	}
	if err := s.commit("added "+k.Singular(), "name", name, "id", n.EntityID()); err != nil {
		return Ref{}, err
	}
	return ref(k, n), nil
}

// Attach links child to parent under rel. The parent must exist; the child
// is resolved or created. Attaching a pair that is already linked returns
// the linked child and writes nothing.
func (s *Service) Attach(rel Relation, parentName, childName string) (Ref, error) {
	parent, err := s.find(rel.Parent, parentName)
	if err != nil {
		return Ref{}, err
	}
	child, _, err := s.ResolveOrCreate(rel.Child, childName)
	if err != nil {
		return Ref{}, err
	}

	links, err := s.table(types.LinksTable)
	if err != nil {
		return Ref{}, err
	}
	existing, err := links.Fetch(types.Filter{
		"link_type": rel.LinkType,
		"from_id":   parent.EntityID(),
		"to_id":     child.ID,
	})
	if err != nil {
		return Ref{}, fmt.Errorf("checking %s link: %w", rel.LinkType, err)
	}
	if len(existing) > 0 {
		s.logger.Debug("pair already linked", "parent", parent.EntityName(), "child", child.Name)
		return child, nil
	}

	link := &types.Link{LinkType: rel.LinkType, FromID: parent.EntityID(), ToID: child.ID}
	if _, err := links.Add(link); err != nil {
		return Ref{}, fmt.Errorf("linking %s to %s: %w", child.Name, parent.EntityName(), err)
	}
	if err := s.commit("added "+rel.Child.Singular()+" to "+rel.Parent.Singular(),
		"child", child.Name, "parent", parent.EntityName()); err != nil {
		return Ref{}, err
	}
	return child, nil
}

// Detach removes the link between parent and the child whose name matches
// childName. The child entity is kept. Returns ErrNotFound when the parent
// is missing or no linked child matches.
func (s *Service) Detach(rel Relation, parentName, childName string) error {
	parent, err := s.find(rel.Parent, parentName)
	if err != nil {
		return err
	}
	if err := types.ValidateName(childName); err != nil {
		return fmt.Errorf("%s name %q: %w", rel.Child.Singular(), childName, err)
	}

	links, err := s.table(types.LinksTable)
	if err != nil {
		return err
	}
	children, err := s.table(rel.Child)
	if err != nil {
		return err
	}
	rows, err := links.Fetch(types.Filter{"link_type": rel.LinkType, "from_id": parent.EntityID()})
	if err != nil {
		return fmt.Errorf("listing %s links: %w", rel.LinkType, err)
	}

	key := types.Normalize(childName)
	for _, row := range rows {
		link := row.(*types.Link)
		rec, err := children.Get(link.ToID)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if types.Normalize(rec.(types.Named).EntityName()) != key {
			continue
		}
		if err := links.Remove(link.LinkID); err != nil {
			return fmt.Errorf("unlinking %s: %w", childName, err)
		}
		return s.commit("removed "+rel.Child.Singular()+" from "+rel.Parent.Singular(),
			"child", childName, "parent", parent.EntityName())
	}

	s.logger.Debug("detach of unlinked child", "parent", parent.EntityName(), "child", childName)
	return fmt.Errorf("%s %q in %s %q: %w",
		rel.Child.Singular(), childName, rel.Parent.Singular(), parentName, types.ErrNotFound)
}

// Delete removes the entity and every link that names it as parent or
// child. Linked entities are never deleted.
func (s *Service) Delete(k Kind, name string) error {
	n, err := s.find(k, name)
	if err != nil {
		return err
	}
	links, err := s.table(types.LinksTable)
	if err != nil {
		return err
	}

	id := n.EntityID()
	for _, key := range []string{"from_id", "to_id"} {
		rows, err := links.Fetch(types.Filter{key: id})
		if err != nil {
			return fmt.Errorf("listing links of %s: %w", name, err)
		}
		for _, row := range rows {
			if err := links.Remove(row.(*types.Link).LinkID); err != nil {
				return fmt.Errorf("removing link of %s: %w", name, err)
			}
		}
	}

	t, err := s.table(k)
	if err != nil {
		return err
	}
	if err := t.Remove(id); err != nil {
		return fmt.Errorf("deleting %s %q: %w", k.Singular(), name, err)
	}
	return s.commit("deleted "+k.Singular(), "name", n.EntityName(), "id", id)
}

// Children returns the parent's children under rel in link order.
func (s *Service) Children(rel Relation, parentName string) ([]Ref, error) {
	parent, err := s.find(rel.Parent, parentName)
	if err != nil {
		return nil, err
	}
	return s.children(rel, parent.EntityID())
}

func (s *Service) children(rel Relation, parentID string) ([]Ref, error) {
	links, err := s.table(types.LinksTable)
	if err != nil {
		return nil, err
	}
	t, err := s.table(rel.Child)
	if err != nil {
		return nil, err
	}
	rows, err := links.Fetch(types.Filter{"link_type": rel.LinkType, "from_id": parentID})
	if err != nil {
		return nil, fmt.Errorf("listing %s links: %w", rel.LinkType, err)
	}

	refs := make([]Ref, 0, len(rows))
	for _, row := range rows {
		rec, err := t.Get(row.(*types.Link).ToID)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref(rel.Child, rec.(types.Named)))
	}
	return refs, nil
}

// ListAll returns every entity of kind k with its associations expanded.
// SortByCategory orders recipes by category name, uncategorized first, with
// ties broken by name; other kinds are always ordered by name.
func (s *Service) ListAll(k Kind, key SortKey) ([]Detail, error) {
	t, err := s.table(k)
	if err != nil {
		return nil, err
	}
	rows, err := t.Fetch(nil)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", k, err)
	}

	rel, hasChildren := relationFrom(k)
	categories := map[string]string{}
	details := make([]Detail, 0, len(rows))
	for _, row := range rows {
		n := row.(types.Named)
		d := Detail{Ref: ref(k, n)}
		if r, ok := n.(*types.Recipe); ok && r.CategoryID != "" {
			if d.Category, err = s.categoryName(r.CategoryID, categories); err != nil {
				return nil, err
			}
		}
		if hasChildren {
			if d.Children, err = s.children(rel, n.EntityID()); err != nil {
				return nil, err
			}
		}
		details = append(details, d)
	}

	sort.SliceStable(details, func(i, j int) bool {
		a, b := details[i], details[j]
		if key == SortByCategory {
			ca, cb := types.Normalize(a.Category), types.Normalize(b.Category)
			if ca != cb {
				return ca < cb
			}
		}
		return types.Normalize(a.Name) < types.Normalize(b.Name)
	})
	return details, nil
}

// categoryName resolves a category ID through a per-call cache. A dangling
// ID reads as uncategorized.
func (s *Service) categoryName(id string, cache map[string]string) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	t, err := s.table(Categories)
	if err != nil {
		return "", err
	}
	rec, err := t.Get(id)
	if errors.Is(err, types.ErrNotFound) {
		cache[id] = ""
		return "", nil
	}
	if err != nil {
		return "", err
	}
	name := rec.(types.Named).EntityName()
	cache[id] = name
	return name, nil
}

// SetCategory files the recipe under the named category, creating the
// category when it does not exist yet.
func (s *Service) SetCategory(recipeName, categoryName string) (Ref, error) {
	n, err := s.find(Recipes, recipeName)
	if err != nil {
		return Ref{}, err
	}
	cat, _, err := s.ResolveOrCreate(Categories, categoryName)
	if err != nil {
		return Ref{}, err
	}

	recipe := n.(*types.Recipe)
	if recipe.CategoryID == cat.ID {
		return cat, nil
	}
	recipe.CategoryID = cat.ID

	t, err := s.table(Recipes)
	if err != nil {
		return Ref{}, err
	}
	if err := t.Update(recipe.RecipeID, recipe); err != nil {
		return Ref{}, fmt.Errorf("updating recipe %q: %w", recipeName, err)
	}
	if err := s.commit("set recipe category", "recipe", recipe.Name, "category", cat.Name); err != nil {
		return Ref{}, err
	}
	return cat, nil
}
