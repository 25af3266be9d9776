// Package store holds the application state: task templates, daily habits,
// and settings. Stores own their collections exclusively; every mutation
// updates memory first, then mirrors the collection to the persistence
// adapter. A failed persist is reported to the caller but never rolls back
// the in-memory change.
package store

import "errors"

var (
	// ErrNotFound is returned by mutations that target an id not present
	// in the collection.
	ErrNotFound = errors.New("store: not found")
	// ErrImport is returned when an import payload cannot be parsed.
	ErrImport = errors.New("store: invalid import payload")
)
