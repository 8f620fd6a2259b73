package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is not active")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrMalformedToken     = errors.New("invalid token format")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidManager     = errors.New("invalid manager id")
	// ErrInternal marks a failure inside the authentication path itself.
	ErrInternal = errors.New("internal error")
)

// ValidationError reports a malformed request body. Message is the first
// violation found, phrased for end users.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a *ValidationError carrying msg.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
