package models

import "errors"

// Sentinel errors shared by every persistence collaborator.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record changed concurrently")
)
