package configuration

import (
	"slices"
	"strings"
)

// ValueType is the discriminant of Value.
type ValueType int

const (
	TypeString ValueType = iota
	TypeStringArray
	TypeConfiguration
)

// String returns the string representation of the value type
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeStringArray:
		return "string array"
	case TypeConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Value holds one of a string, a string array or a nested Configuration.
// The zero Value is the empty string.
type Value struct {
	typ    ValueType
	str    string
	array  []string
	nested *Configuration
}

// StringValue creates a string Value
func StringValue(s string) Value {
	return Value{typ: TypeString, str: s}
}

// StringArrayValue creates a string array Value. The slice is copied.
func StringArrayValue(values []string) Value {
	return Value{typ: TypeStringArray, array: slices.Clone(values)}
}

// ConfigurationValue creates a Value holding a deep copy of c.
func ConfigurationValue(c *Configuration) Value {
	if c == nil {
		c = New()
	}
	return Value{typ: TypeConfiguration, nested: c.Clone()}
}

// Type returns the variant held by the value
func (v Value) Type() ValueType {
	return v.typ
}

// AsString returns the string held by the value
func (v Value) AsString() (string, error) {
	if v.typ != TypeString {
		return "", typeMismatch(TypeString, v.typ)
	}
	return v.str, nil
}

// AsStringArray returns a copy of the string array held by the value
func (v Value) AsStringArray() ([]string, error) {
	if v.typ != TypeStringArray {
		return nil, typeMismatch(TypeStringArray, v.typ)
	}
	return slices.Clone(v.array), nil
}

// AsConfiguration returns the nested configuration held by the value.
// The returned pointer aliases the stored node.
func (v Value) AsConfiguration() (*Configuration, error) {
	if v.typ != TypeConfiguration {
		return nil, typeMismatch(TypeConfiguration, v.typ)
	}
	if v.nested == nil {
		return New(), nil
	}
	return v.nested, nil
}

// Equal reports whether both values hold the same variant and content.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeString:
		return v.str == other.str
	case TypeStringArray:
		return slices.Equal(v.array, other.array)
	case TypeConfiguration:
		return v.nested.Equal(other.nested)
	}
	return false
}

// String renders the value for debugging and log output
func (v Value) String() string {
	switch v.typ {
	case TypeStringArray:
		return "[" + strings.Join(v.array, ", ") + "]"
	case TypeConfiguration:
		if v.nested == nil {
			return "{}"
		}
		return v.nested.String()
	default:
		return v.str
	}
}

// clone deep-copies the value so no two configurations share a node.
func (v Value) clone() Value {
	switch v.typ {
	case TypeStringArray:
		v.array = slices.Clone(v.array)
	case TypeConfiguration:
		if v.nested != nil {
			v.nested = v.nested.Clone()
		}
	}
	return v
}
