package storage

import "errors"

var (
	// ErrNotFound signals a lookup or update targeting a row that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate signals a uniqueness violation, currently only possible on
	// the users.email column.
	ErrDuplicate = errors.New("duplicate")
)
