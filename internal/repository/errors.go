// Package repository implements raw SQL persistence over MySQL.  This
// file defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when an entity id (or unique key) does not
// resolve to a row.  Handlers should translate this into an HTTP 404
// response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a destination that still has
// donations, claiming a ticket that is no longer available, or
// registering an email that already exists.  Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
