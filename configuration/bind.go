package configuration

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Bind copies the tree into the struct pointed to by target.
//
// Fields are matched by their `config:"name"` tag, or by the lower-cased field
// name when untagged; `config:"-"` skips a field. String entries are converted
// to the field type (bool, integers, floats, time.Duration), string arrays fill
// []string fields (a single string is split on commas) and nested
// configurations fill nested struct fields. Entries without a field are ignored.
func (c *Configuration) Bind(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &Error{Type: ErrorTypeInvalid, Message: "bind target must be a non-nil pointer to struct"}
	}
	return c.bindStruct(rv.Elem(), "")
}

func (c *Configuration) bindStruct(structValue reflect.Value, prefix string) error {
	structType := structValue.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldValue := structValue.Field(i)
		if !field.IsExported() || !fieldValue.CanSet() {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}
		value, ok := c.Lookup(name)
		if !ok {
			continue
		}
		if err := setField(fieldValue, value, prefix+name); err != nil {
			return err
		}
	}
	return nil
}

func fieldName(field reflect.StructField) string {
	if tag := field.Tag.Get("config"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return strings.ToLower(field.Name)
}

func setField(fieldValue reflect.Value, value Value, path string) error {
	switch value.typ {
	case TypeConfiguration:
		if fieldValue.Kind() != reflect.Struct {
			return bindError(path, "cannot bind a configuration to %s", fieldValue.Type())
		}
		return value.nested.bindStruct(fieldValue, path+".")

	case TypeStringArray:
		if fieldValue.Kind() != reflect.Slice || fieldValue.Type().Elem().Kind() != reflect.String {
			return bindError(path, "cannot bind a string array to %s", fieldValue.Type())
		}
		fieldValue.Set(reflect.ValueOf(slices.Clone(value.array)).Convert(fieldValue.Type()))
		return nil

	default:
		if fieldValue.Kind() == reflect.Slice && fieldValue.Type().Elem().Kind() == reflect.String {
			fieldValue.Set(reflect.ValueOf(splitList(value.str)).Convert(fieldValue.Type()))
			return nil
		}
		converted, err := convertString(value.str, fieldValue.Type())
		if err != nil {
			return bindError(path, "%v", err)
		}
		fieldValue.Set(converted)
		return nil
	}
}

// convertString converts a string entry to the target field type
func convertString(str string, targetType reflect.Type) (reflect.Value, error) {
	out := reflect.New(targetType).Elem()
	switch targetType.Kind() {
	case reflect.String:
		out.SetString(str)

	case reflect.Bool:
		b, err := parseBool(str)
		if err != nil {
			return out, err
		}
		out.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if targetType == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(str)
			if err != nil {
				return out, err
			}
			out.SetInt(int64(d))
			return out, nil
		}
		n, err := strconv.ParseInt(str, 0, targetType.Bits())
		if err != nil {
			return out, err
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(str, 0, targetType.Bits())
		if err != nil {
			return out, err
		}
		out.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(str, targetType.Bits())
		if err != nil {
			return out, err
		}
		out.SetFloat(f)

	default:
		return out, fmt.Errorf("unsupported type conversion to %s", targetType)
	}
	return out, nil
}

// parseBool accepts the usual command-line spellings. The empty string is
// true: a toggle given without a value is "present".
func parseBool(str string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "true", "t", "yes", "y", "1", "on", "":
		return true, nil
	case "false", "f", "no", "n", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %s", str)
	}
}

// splitList parses comma-separated strings: "item1,item2,item3"
func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func bindError(path, format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeInvalid,
		Name:    path,
		Message: "bind " + path + ": " + fmt.Sprintf(format, args...),
	}
}
