package app

import "errors"

var (
	// ErrInvalidCredentials covers both unknown-username and bad-password
	// so a caller cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a malformed or incomplete request.
	ErrValidation = errors.New("validation failed")
)
