package fairness

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange      = errors.New("range end must be positive")
	ErrInvalidUserNumber = errors.New("user number is not an integer in range")
	ErrRoundState        = errors.New("operation not allowed in current round state")
)

// ProtocolError records which step of a fairness round failed.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("fairness %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
