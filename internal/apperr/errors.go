package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateModule    = errors.New("duplicate module")
	ErrConflictingBinding = errors.New("conflicting binding")
	ErrRegistrySealed     = errors.New("registry sealed")
	ErrDuplicateNoteID    = errors.New("duplicate note id")
)
