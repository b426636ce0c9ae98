package types

import "time"

// Recipe owns a set of ingredient links and an optional category.
// Ingredients are linked through LinkTypeUses records, never embedded.
type Recipe struct {
	RecipeID   string    `json:"recipe_id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"category_id,omitempty"` // empty when uncategorized
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Recipe) EntityID() string                { return r.RecipeID }
func (r *Recipe) EntityName() string              { return r.Name }
func (r *Recipe) SetEntityID(id string)           { r.RecipeID = id }
func (r *Recipe) EntityCreatedAt() time.Time      { return r.CreatedAt }
func (r *Recipe) SetEntityCreatedAt(ts time.Time) { r.CreatedAt = ts }

// Category groups recipes. Deleting a category is not supported; recipes
// only hold its ID.
type Category struct {
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *Category) EntityID() string                { return c.CategoryID }
func (c *Category) EntityName() string              { return c.Name }
func (c *Category) SetEntityID(id string)           { c.CategoryID = id }
func (c *Category) EntityCreatedAt() time.Time      { return c.CreatedAt }
func (c *Category) SetEntityCreatedAt(ts time.Time) { c.CreatedAt = ts }
