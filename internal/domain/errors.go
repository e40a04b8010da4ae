package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCurrentUser is returned when a friend request is made before a user is resolved
	ErrNoCurrentUser = errors.New("no current user")
	// ErrCoordinatorClosed is returned by operations on a stopped coordinator
	ErrCoordinatorClosed = errors.New("coordinator closed")
)

// PreconditionError reports an operation that was requested in a state that does not allow it
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition failed: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
