package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrMissingCredential means the Authorization header was absent or empty.
	ErrMissingCredential = errors.New("missing token")
	// ErrInvalidToken means a token failed signature, structure, or expiry checks.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUnauthenticated covers bad credentials and unknown subjects alike.
	ErrUnauthenticated = errors.New("unauthorized")
	// ErrNotFound covers both absent resources and resources owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrUnknownStatus means a status name outside the closed state set.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrInvalidTransition means no direct path from the current to the requested state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden means a transition guard rejected the acting user.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries every violated-field message from a single write.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, ", ")
}

func Validation(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// AsValidation unwraps err into a ValidationError when possible.
func AsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
