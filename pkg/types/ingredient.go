package types

import "time"

// Ingredient is a leaf entity that many recipes may reference.
type Ingredient struct {
	IngredientID string    `json:"ingredient_id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i *Ingredient) EntityID() string                { return i.IngredientID }
func (i *Ingredient) EntityName() string              { return i.Name }
func (i *Ingredient) SetEntityID(id string)           { i.IngredientID = id }
func (i *Ingredient) EntityCreatedAt() time.Time      { return i.CreatedAt }
func (i *Ingredient) SetEntityCreatedAt(ts time.Time) { i.CreatedAt = ts }
