package snap

import "fmt"

// ErrorType represents error categories for specification building and parsing.
// These categories drive exit-code mapping (via ExitCodeManager).
type ErrorType string

const (
	ErrorTypeMalformedInput       ErrorType = "malformed_input"
	ErrorTypeUnknownFlag          ErrorType = "unknown_flag"
	ErrorTypeInvalidValue         ErrorType = "invalid_value"
	ErrorTypeInvalidArgument      ErrorType = "invalid_argument"
	ErrorTypeDuplicateOption      ErrorType = "duplicate_option"
	ErrorTypeInvalidSpecification ErrorType = "invalid_specification"
)

// ParseError represents parsing-specific errors (used by parser.go)
type ParseError struct {
	Type       ErrorType
	Message    string
	Flag       string // Option name involved, if any
	Argument   string // Raw token that caused the error
	Position   int    // Index of the token in the argument vector
	Suggestion string // Closest known option name, strict mode only
}

func (e *ParseError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean '%s'?)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Is matches parse errors of the same category
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Type == e.Type
}

// NewParseError creates a new ParseError with the given type and message
func NewParseError(errType ErrorType, message string) *ParseError {
	return &ParseError{
		Type:    errType,
		Message: message,
	}
}

// Sentinels for errors.Is checks.
var (
	ErrMalformedInput = NewParseError(ErrorTypeMalformedInput, "malformed input")
	ErrUnknownFlag    = NewParseError(ErrorTypeUnknownFlag, "unknown option")
	ErrInvalidValue   = NewParseError(ErrorTypeInvalidValue, "invalid value")
)

// SpecError is returned when a CommandSpecification rejects a declaration
type SpecError struct {
	Type    ErrorType
	Message string
	Option  string
}

func (e *SpecError) Error() string {
	return e.Message
}

// Is matches specification errors of the same category
func (e *SpecError) Is(target error) bool {
	t, ok := target.(*SpecError)
	return ok && t.Type == e.Type
}

// ErrDuplicateOption matches SpecErrors raised for a name registered twice.
var ErrDuplicateOption = &SpecError{Type: ErrorTypeDuplicateOption, Message: "duplicate option"}

func duplicateOption(kind, name string) *SpecError {
	return &SpecError{
		Type:    ErrorTypeDuplicateOption,
		Message: fmt.Sprintf("%s %s is already registered", kind, name),
		Option:  name,
	}
}

func invalidSpecification(name, message string) *SpecError {
	return &SpecError{
		Type:    ErrorTypeInvalidSpecification,
		Message: message,
		Option:  name,
	}
}
