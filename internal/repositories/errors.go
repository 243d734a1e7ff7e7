package repositories

import "errors"

var (
	// ErrNotFound is returned when no document matches a lookup, or when a
	// conditional update matched nothing because its precondition filter
	// no longer holds.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate document")
)
