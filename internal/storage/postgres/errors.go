package postgres

import "errors"

// Sentinel errors surfaced by the repositories. Handlers map these to
// HTTP statuses; the import pipeline branches on ErrNotFound.
var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("record already exists")
	ErrVersionConflict = errors.New("aggregate was modified concurrently")
	ErrDuplicateEmail  = errors.New("email already exists")
)
