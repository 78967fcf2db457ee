package dispatch

import "errors"

var (
	ErrSessionNotFound = errors.New("dispatch session not found or expired")
	// ErrStaleView is returned when a newer request superseded the one in
	// flight; its result is discarded.
	ErrStaleView      = errors.New("dispatch view superseded by a newer request")
	ErrInvalidRequest = errors.New("invalid dispatch request")
)
