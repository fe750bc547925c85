package configuration

import "fmt"

// ErrorType represents error categories for configuration lookups.
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	ErrorTypeInvalid      ErrorType = "invalid"
)

// Error is returned by the failing accessors of Configuration and Value.
type Error struct {
	Type    ErrorType
	Name    string // Option name, empty for Value accessors
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same category, so errors.Is(err, ErrNotFound) works
// regardless of the option name carried by err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound     = &Error{Type: ErrorTypeNotFound, Message: "configuration value not found"}
	ErrTypeMismatch = &Error{Type: ErrorTypeTypeMismatch, Message: "configuration value type mismatch"}
)

func notFound(name string) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Name:    name,
		Message: "configuration value not found: " + name,
	}
}

func typeMismatch(want, got ValueType) *Error {
	return &Error{
		Type:    ErrorTypeTypeMismatch,
		Message: fmt.Sprintf("configuration value is a %s, not a %s", got, want),
	}
}
