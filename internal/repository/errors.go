// Package repository implements the persistence layer over database/sql.
// Repositories translate driver-level failures into the sentinel errors below
// so that services never have to inspect MySQL error codes themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by lookups when no matching row exists.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update violates the unique
// email key.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when an insert or update violates the unique
// username key.
var ErrUsernameExists = errors.New("username already exists")

// ErrAlreadyRated is returned when an insert violates the one-rating-per-
// user-per-photo unique key. The key is the authoritative guard against the
// concurrent double-rating race; callers treat this as "already rated".
var ErrAlreadyRated = errors.New("already rated")

// ErrDuplicate is returned for any other unique key violation.
var ErrDuplicate = errors.New("duplicate entry")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
