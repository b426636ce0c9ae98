// Package catalog resolves named entities and maintains the association
// records between them. Every lookup goes through the store by normalized
// name; parents reference children through link records and never own them.
package catalog
