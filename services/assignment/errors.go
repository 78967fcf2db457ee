package assignment

import (
	"errors"
	"fmt"
)

// Kind classifies an assignment failure for the operator.
type Kind string

const (
	KindConflict Kind = "conflict"
	KindFailed   Kind = "failed"
	KindNotFound Kind = "not_found"
	KindInvalid  Kind = "invalid"
)

type AssignmentError struct {
	Kind    Kind
	ShootID string
	Message string
	Err     error
}

func (e *AssignmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AssignmentError) Unwrap() error {
	return e.Err
}

func newAssignmentError(kind Kind, shootID, msg string, err error) error {
	return &AssignmentError{Kind: kind, ShootID: shootID, Message: msg, Err: err}
}

// KindOf returns the Kind of err, or KindFailed for anything else.
func KindOf(err error) Kind {
	var ae *AssignmentError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindFailed
}
