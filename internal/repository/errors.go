// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver-specific error strings. For
// example, ErrNotFound covers any lookup of a missing or soft-deleted
// row, while ErrDuplicate signals that an insert collided with a
// uniqueness constraint.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist or has
// been soft-deleted. Handlers should translate this into an HTTP 404
// response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert collides with the
// unique email constraint. Services should translate this into a
// validation failure, not a server fault.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint other than the user email, such as the (user_id, year)
// key on vacation entitlements.
var ErrDuplicate = errors.New("duplicate entry")

// isDuplicateKey reports whether err is the MySQL duplicate-key error
// (code 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
