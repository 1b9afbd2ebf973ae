package services

import "errors"

// Kind classifies a service failure. Handlers pick the HTTP status from it.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindCredentials // bad email/password at login
	KindAuth        // missing, invalid or expired token
	KindDependency  // persistence failure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindCredentials:
		return "credentials"
	case KindAuth:
		return "auth"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error is returned by every service operation that fails for a known reason.
// Message is safe to show to clients; Err carries the internal cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewConflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewCredentialsError(message string) error {
	return &Error{Kind: KindCredentials, Message: message}
}

func NewAuthError(message string, cause error) error {
	return &Error{Kind: KindAuth, Message: message, Err: cause}
}

func NewDependencyError(message string, cause error) error {
	return &Error{Kind: KindDependency, Message: message, Err: cause}
}

// KindOf returns the kind of err, or 0 when err is not a service error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}
