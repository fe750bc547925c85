package snap

import (
	"errors"

	"github.com/dzonerzy/snapconf/configuration"
)

// ExitError requests a specific exit code from application code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
	NotFoundError   int // default: 127
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3, NotFoundError: 127}
}

// ExitCodeManager maps errors and categories to process exit codes.
type ExitCodeManager struct {
	codesByType   map[ErrorType]int
	codesByConfig map[configuration.ErrorType]int
	defaults      ExitCodeDefaults
}

// NewExitCodeManager creates a manager with the default category mappings
func NewExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByType:   make(map[ErrorType]int),
		codesByConfig: make(map[configuration.ErrorType]int),
	}
	m.Default(defaultExitDefaults())
	return m
}

// Define overrides the exit code used for a parser or specification error category.
func (e *ExitCodeManager) Define(typ ErrorType, code int) *ExitCodeManager {
	e.codesByType[typ] = code
	return e
}

// DefineConfiguration overrides the exit code used for a configuration error category.
func (e *ExitCodeManager) DefineConfiguration(typ configuration.ErrorType, code int) *ExitCodeManager {
	e.codesByConfig[typ] = code
	return e
}

// Default replaces the manager's default codes and re-wires the category
// mappings to them. Call it before Define.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d

	// Prewire common mappings
	e.codesByType[ErrorTypeMalformedInput] = d.MisusageError
	e.codesByType[ErrorTypeUnknownFlag] = d.MisusageError
	e.codesByType[ErrorTypeInvalidArgument] = d.MisusageError
	e.codesByType[ErrorTypeInvalidValue] = d.ValidationError
	e.codesByType[ErrorTypeDuplicateOption] = d.GeneralError
	e.codesByType[ErrorTypeInvalidSpecification] = d.GeneralError

	e.codesByConfig[configuration.ErrorTypeNotFound] = d.NotFoundError
	e.codesByConfig[configuration.ErrorTypeTypeMismatch] = d.ValidationError
	e.codesByConfig[configuration.ErrorTypeInvalid] = d.ValidationError
	return e
}

// Resolve converts an error to an exit code according to registered mappings.
// Precedence:
//  1. ExitError (requested code)
//  2. ParseError / SpecError category
//  3. configuration.Error category
//  4. GeneralError
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return e.codeFor(parseErr.Type)
	}
	var specErr *SpecError
	if errors.As(err, &specErr) {
		return e.codeFor(specErr.Type)
	}

	var cfgErr *configuration.Error
	if errors.As(err, &cfgErr) {
		if code, ok := e.codesByConfig[cfgErr.Type]; ok {
			return code
		}
	}
	return e.defaults.GeneralError
}

func (e *ExitCodeManager) codeFor(typ ErrorType) int {
	if code, ok := e.codesByType[typ]; ok {
		return code
	}
	return e.defaults.GeneralError
}
