package services

import "errors"

var (
	ErrRegistrationFailed      = errors.New("registration failed")
	ErrEmailServiceUnreachable = errors.New("email service unreachable")
	ErrEmailServiceRejected    = errors.New("email service rejected request")
)

// Error is what the registration service returns for every collaborator
// failure. Its message is meant for display; errors.Is matches both the
// kind sentinel and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
