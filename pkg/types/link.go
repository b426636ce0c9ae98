package types

import "time"

// Link type constants. Each names a parent -> child association.
const (
	LinkTypeUses   = "uses"   // recipe -> ingredient
	LinkTypeServes = "serves" // restaurant -> menu
	LinkTypeOffers = "offers" // menu -> recipe
)

var validLinkTypes = map[string]bool{
	LinkTypeUses:   true,
	LinkTypeServes: true,
	LinkTypeOffers: true,
}

// ValidLinkType reports whether t is one of the LinkType constants.
func ValidLinkType(t string) bool {
	return validLinkTypes[t]
}

// Link is a nameless association record from a parent to a child. The pair
// (LinkType, FromID, ToID) is unique.
type Link struct {
	// LinkID is a UUID v7, generated on creation.
	LinkID string `json:"link_id"`

	// LinkType is the relationship type (uses, serves, offers).
	LinkType string `json:"link_type"`

	// FromID is the parent entity ID.
	FromID string `json:"from_id"`

	// ToID is the child entity ID.
	ToID string `json:"to_id"`

	// Position orders the children of one parent, starting at 0.
	Position int `json:"position"`

	// CreatedAt is the timestamp of creation.
	CreatedAt time.Time `json:"created_at"`
}
