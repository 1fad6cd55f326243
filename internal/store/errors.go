package store

import "errors"

var (
	// ErrNotFound is returned when a row does not exist. Callers also use
	// it for rows that exist but belong to another user, so the two cases
	// are indistinguishable at the API boundary.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a write would violate the unique
	// constraint on users.email.
	ErrDuplicateEmail = errors.New("email already in use")
)
