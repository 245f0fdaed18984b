package dice

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFaces     = errors.New("die must have at least one face")
	ErrTooFewDice     = errors.New("at least three dice are required")
	ErrNonIntegerFace = errors.New("face values must be integers")
)

// ValidationError ties a validation failure to the offending die argument.
// Die is -1 when the failure concerns the set as a whole.
type ValidationError struct {
	Die   int
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Die < 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid dice values %q (die %d): %v", e.Input, e.Die+1, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
