package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert violates the unique email
// index, including the check-then-create race between two registrations.
var ErrDuplicateEmail = errors.New("email already registered")
