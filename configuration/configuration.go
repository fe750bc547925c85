// Package configuration provides an ordered key/value tree used to hold the
// result of command-line parsing and of the other configuration sources.
// Values are strings, string arrays or nested configurations.
package configuration

import (
	"strings"

	"github.com/tidwall/btree"
)

// Configuration is an ordered mapping from option name to Value.
// Names iterate in sorted order. Nested configurations are owned by their
// parent entry: Set stores a deep copy, so a node never appears twice in a tree.
type Configuration struct {
	options *btree.Map[string, Value]
}

// New creates an empty configuration
func New() *Configuration {
	return &Configuration{
		options: btree.NewMap[string, Value](0), // degree 0 = auto-optimize
	}
}

// Size returns the number of top-level entries
func (c *Configuration) Size() int {
	if c == nil || c.options == nil {
		return 0
	}
	return c.options.Len()
}

// Value returns the value stored under name, or an *Error matching
// ErrNotFound when there is none.
func (c *Configuration) Value(name string) (Value, error) {
	if v, ok := c.Lookup(name); ok {
		return v, nil
	}
	return Value{}, notFound(name)
}

// ValueOrDefault returns the value stored under name or defaultValue
func (c *Configuration) ValueOrDefault(name string, defaultValue Value) Value {
	if v, ok := c.Lookup(name); ok {
		return v
	}
	return defaultValue
}

// Lookup returns the value stored under name and whether it exists
func (c *Configuration) Lookup(name string) (Value, bool) {
	if c == nil || c.options == nil {
		return Value{}, false
	}
	return c.options.Get(name)
}

// GetString returns the string stored under name
func (c *Configuration) GetString(name string) (string, error) {
	v, err := c.Value(name)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// StringOrDefault returns the string stored under name, or defaultValue when
// the entry is missing or holds another variant.
func (c *Configuration) StringOrDefault(name, defaultValue string) string {
	v, ok := c.Lookup(name)
	if !ok {
		return defaultValue
	}
	s, err := v.AsString()
	if err != nil {
		return defaultValue
	}
	return s
}

// Path follows nested configurations and returns the value at the last name.
// Path("command", "subcommand", "name") reads the active sub-command name.
func (c *Configuration) Path(names ...string) (Value, error) {
	if len(names) == 0 {
		return ConfigurationValue(c), nil
	}
	node := c
	for i, name := range names {
		v, err := node.Value(name)
		if err != nil {
			return Value{}, notFound(strings.Join(names[:i+1], "."))
		}
		if i == len(names)-1 {
			return v, nil
		}
		if node, err = v.AsConfiguration(); err != nil {
			return Value{}, err
		}
	}
	return Value{}, notFound(strings.Join(names, "."))
}

// Set inserts or replaces the value stored under name
func (c *Configuration) Set(name string, value Value) {
	c.ensure()
	c.options.Set(name, value.clone())
}

// SetString stores a string value
func (c *Configuration) SetString(name, value string) {
	c.Set(name, StringValue(value))
}

// SetStringArray stores a string array value
func (c *Configuration) SetStringArray(name string, values []string) {
	c.Set(name, StringArrayValue(values))
}

// SetConfiguration stores a copy of nested under name and returns the stored
// node, which callers may keep populating.
func (c *Configuration) SetConfiguration(name string, nested *Configuration) *Configuration {
	c.ensure()
	v := ConfigurationValue(nested)
	c.options.Set(name, v)
	return v.nested
}

// Names returns the entry names in iteration order
func (c *Configuration) Names() []string {
	if c == nil || c.options == nil {
		return nil
	}
	return c.options.Keys()
}

// Each calls fn for every entry in iteration order
func (c *Configuration) Each(fn func(name string, value Value)) {
	if c == nil || c.options == nil {
		return
	}
	c.options.Scan(func(name string, value Value) bool {
		fn(name, value)
		return true
	})
}

// Clone returns a deep copy
func (c *Configuration) Clone() *Configuration {
	out := New()
	c.Each(func(name string, value Value) {
		out.options.Set(name, value.clone())
	})
	return out
}

// Merge overlays other onto c. Entries of other replace those of c, except
// when both sides hold a configuration: those are merged recursively.
func (c *Configuration) Merge(other *Configuration) {
	other.Each(func(name string, incoming Value) {
		if existing, ok := c.Lookup(name); ok &&
			existing.typ == TypeConfiguration && incoming.typ == TypeConfiguration && existing.nested != nil {
			existing.nested.Merge(incoming.nested)
			return
		}
		c.Set(name, incoming)
	})
}

// Equal reports whether both trees hold the same entries
func (c *Configuration) Equal(other *Configuration) bool {
	if c.Size() != other.Size() {
		return false
	}
	equal := true
	c.Each(func(name string, value Value) {
		if !equal {
			return
		}
		o, ok := other.Lookup(name)
		equal = ok && value.Equal(o)
	})
	return equal
}

// String renders the tree on one line, e.g. {command: {name: build}, verbose: true}
func (c *Configuration) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	c.Each(func(name string, value Value) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value.String())
	})
	b.WriteByte('}')
	return b.String()
}

func (c *Configuration) ensure() {
	if c.options == nil {
		c.options = btree.NewMap[string, Value](0)
	}
}
