package snap

import (
	"slices"

	"github.com/dzonerzy/snapconf/configuration"
)

// OptionType represents how an option consumes values
type OptionType string

const (
	// OptionTypeSingleValue stores the last value given.
	OptionTypeSingleValue OptionType = "single_value"
	// OptionTypeToggle is a switch; given without a value it stores "true".
	// Every other option given as a bare --name stores the empty string.
	OptionTypeToggle OptionType = "toggle"
	// OptionTypeMultiValue collects every occurrence into a string array.
	OptionTypeMultiValue OptionType = "multi_value"
)

// OptionDetails describes one option. It is a value type: the With* methods
// return modified copies, and a registered option is never mutated.
type OptionDetails struct {
	Type          OptionType
	ShortName     string
	Description   string
	AllowedValues []string

	defaultValue configuration.Value
	hasDefault   bool
}

// SingleValue describes an option holding one string
func SingleValue() OptionDetails {
	return OptionDetails{Type: OptionTypeSingleValue}
}

// Toggle describes a switch option
func Toggle() OptionDetails {
	return OptionDetails{Type: OptionTypeToggle}
}

// MultiValue describes an option that accumulates values
func MultiValue() OptionDetails {
	return OptionDetails{Type: OptionTypeMultiValue}
}

// WithDefault sets a string default value
func (d OptionDetails) WithDefault(value string) OptionDetails {
	d.defaultValue = configuration.StringValue(value)
	d.hasDefault = true
	return d
}

// WithDefaults sets a string array default value, used by multi-value options
func (d OptionDetails) WithDefaults(values ...string) OptionDetails {
	d.defaultValue = configuration.StringArrayValue(values)
	d.hasDefault = true
	return d
}

// WithShortName sets the short alias (the name used after a single dash)
func (d OptionDetails) WithShortName(short string) OptionDetails {
	d.ShortName = short
	return d
}

// WithAllowedValues restricts the values the option accepts
func (d OptionDetails) WithAllowedValues(values ...string) OptionDetails {
	d.AllowedValues = slices.Clone(values)
	return d
}

// WithDescription sets the help text
func (d OptionDetails) WithDescription(description string) OptionDetails {
	d.Description = description
	return d
}

// DefaultValue returns the configured default and whether there is one
func (d OptionDetails) DefaultValue() (configuration.Value, bool) {
	return d.defaultValue, d.hasDefault
}

// IsValueAllowed reports whether token may be bound as this option's value:
// it must be non-empty and, when allowed values are declared, one of them.
func (d OptionDetails) IsValueAllowed(token string) bool {
	if token == "" {
		return false
	}
	if len(d.AllowedValues) == 0 {
		return true
	}
	return slices.Contains(d.AllowedValues, token)
}
