package service

import "errors"

var (
	ErrInvalidDie    = errors.New("invalid die index")
	ErrRoundNotFound = errors.New("fairness round not found")
	ErrNotRevealed   = errors.New("fairness round has not been revealed")

	// ErrUserNumberLocked is returned when a reveal is retried with a
	// different number than the one already combined.
	ErrUserNumberLocked = errors.New("user number already submitted for this round")
)
