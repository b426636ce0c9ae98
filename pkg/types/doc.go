// Package types defines the Store and Table interfaces, the catalog entity
// types, name normalization, and the standard errors for the Larder catalog.
package types
