package domain

import "errors"

var (
	// ErrSessionNotFound means the requested session id has no record.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateSession means a session with the same id already exists.
	ErrDuplicateSession = errors.New("session already exists")

	// ErrIncompleteSession means the final step was invoked before the
	// riddle-answer and sigil-choice steps were recorded.
	ErrIncompleteSession = errors.New("incomplete session")

	// ErrInvalidInput means a step was invoked with an empty value.
	ErrInvalidInput = errors.New("invalid input")
)
