package core

import "errors"

var (
	// ErrConflict is returned when a username is already taken.
	ErrConflict = errors.New("conflict")

	// ErrAuth covers bad credentials and invalid, expired or orphaned tokens.
	ErrAuth = errors.New("not authenticated")

	// ErrNotFound is returned for todos that are absent or owned by another user.
	ErrNotFound = errors.New("not found")

	ErrInvalid = errors.New("invalid input")
)
