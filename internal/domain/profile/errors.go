package profile

import "errors"

var (
	// ErrProfileNotFound indicates no profile has been created yet.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidInput indicates invalid profile input.
	ErrInvalidInput = errors.New("invalid profile input")
)
