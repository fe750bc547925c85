package configuration

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// MarshalJSON encodes the tree as a JSON object: strings stay strings, string
// arrays become arrays and nested configurations become objects.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toMap())
}

// UnmarshalJSON replaces the content of c with the decoded JSON object.
// Numbers and booleans are kept as their textual form; null entries are skipped.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	decoded, err := fromMap(raw)
	if err != nil {
		return err
	}
	c.options = decoded.options
	return nil
}

func (c *Configuration) toMap() map[string]any {
	out := make(map[string]any, c.Size())
	c.Each(func(name string, value Value) {
		switch value.typ {
		case TypeStringArray:
			out[name] = value.array
		case TypeConfiguration:
			out[name] = value.nested.toMap()
		default:
			out[name] = value.str
		}
	})
	return out
}

func fromMap(raw map[string]any) (*Configuration, error) {
	c := New()
	for name, item := range raw {
		switch v := item.(type) {
		case nil:
			continue
		case map[string]any:
			nested, err := fromMap(v)
			if err != nil {
				return nil, err
			}
			c.options.Set(name, Value{typ: TypeConfiguration, nested: nested})
		case []any:
			values := make([]string, 0, len(v))
			for i, elem := range v {
				s, err := scalarString(elem)
				if err != nil {
					return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
				}
				values = append(values, s)
			}
			c.options.Set(name, Value{typ: TypeStringArray, array: values})
		default:
			s, err := scalarString(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			c.options.Set(name, StringValue(s))
		}
	}
	return c, nil
}

func scalarString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case bool:
		if s {
			return "true", nil
		}
		return "false", nil
	default:
		return "", &Error{
			Type:    ErrorTypeInvalid,
			Message: fmt.Sprintf("unsupported value of type %T", v),
		}
	}
}
