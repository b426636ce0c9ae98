package types

import "time"

// Restaurant links to its menus through LinkTypeServes records.
type Restaurant struct {
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *Restaurant) EntityID() string                { return r.RestaurantID }
func (r *Restaurant) EntityName() string              { return r.Name }
func (r *Restaurant) SetEntityID(id string)           { r.RestaurantID = id }
func (r *Restaurant) EntityCreatedAt() time.Time      { return r.CreatedAt }
func (r *Restaurant) SetEntityCreatedAt(ts time.Time) { r.CreatedAt = ts }

// Menu is shared between restaurants and lists recipes in order through
// LinkTypeOffers records.
type Menu struct {
	MenuID    string    `json:"menu_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Menu) EntityID() string                { return m.MenuID }
func (m *Menu) EntityName() string              { return m.Name }
func (m *Menu) SetEntityID(id string)           { m.MenuID = id }
func (m *Menu) EntityCreatedAt() time.Time      { return m.CreatedAt }
func (m *Menu) SetEntityCreatedAt(ts time.Time) { m.CreatedAt = ts }
