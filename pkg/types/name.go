package types

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize returns the canonical form of an entity name: surrounding
// whitespace trimmed, then Unicode case folded. Two names are the same
// entity exactly when their normalized forms are equal.
func Normalize(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ValidateName returns ErrInvalidName when name is empty after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}
