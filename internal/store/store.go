// Package store provides the PostgreSQL persistence layer for profiles and
// feedback. Stores are constructed around a *sql.DB so handlers receive them
// explicitly instead of reaching for package globals.
package store

import "errors"

// ErrNotFound is returned when a lookup or delete matches no row. Callers must
// surface it as a generic not-found outcome: it deliberately does not
// distinguish "does not exist" from "exists but is not yours".
var ErrNotFound = errors.New("store: not found")
