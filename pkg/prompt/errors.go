package prompt

import "errors"

var (
	// ErrAborted signals the operator aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrDeclined is returned when the operator answers no to a confirmation.
	ErrDeclined = errors.New("prompt: declined by operator")
)
