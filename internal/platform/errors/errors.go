// Package errors defines coded application errors shared by every service.
// Codes travel across HTTP boundaries, so two errors with the same code
// compare equal under errors.Is regardless of message.
package errors

// Error carries a stable code alongside a human-readable message.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates an error carrying extra key/value context.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates an error with an underlying cause kept on the chain.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Is matches by code, so sentinel comparisons work across services.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}
