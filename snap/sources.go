package snap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/dzonerzy/snapconf/configuration"
)

// LoadFile reads a configuration file. The format follows the extension:
// .json or .hcl. A missing file yields an error matching os.ErrNotExist.
func LoadFile(path string) (*configuration.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(data)
	case ".hcl":
		return LoadHCL(data, path)
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", path)
	}
}

// LoadJSON decodes a JSON object into a configuration
func LoadJSON(data []byte) (*configuration.Configuration, error) {
	cfg := configuration.New()
	if err := cfg.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return cfg, nil
}

// LoadHCL decodes an HCL document into a configuration. Attributes become
// entries: strings, numbers and booleans as strings, lists as string arrays,
// objects as nested configurations. A block becomes a nested configuration
// under its type; its first label is stored as "name" and each further label
// opens a nested "sub"+type block, mirroring chained commands:
//
//	command "build" "docker" { target = "linux" }
//
// yields {command: {name: build, subcommand: {name: docker, target: linux}}}.
func LoadHCL(data []byte, filename string) (*configuration.Configuration, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL config %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL config %s: unexpected body type %T", filename, file.Body)
	}

	cfg, diags := decodeHCLBody(body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL config %s: %w", filename, diags)
	}
	return cfg, nil
}

func decodeHCLBody(body *hclsyntax.Body) (*configuration.Configuration, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	cfg := configuration.New()

	for name, attr := range body.Attributes {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		value, ok, err := ctyToValue(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported attribute value",
				Detail:   fmt.Sprintf("%s: %v", name, err),
				Subject:  attr.SrcRange.Ptr(),
			})
			continue
		}
		if ok {
			cfg.Set(name, value)
		}
	}

	for _, block := range body.Blocks {
		nested, blockDiags := decodeHCLBody(block.Body)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		cfg.Merge(labelled(block.Type, block.Labels, nested))
	}
	return cfg, diags
}

// labelled wraps body in one nested configuration per label, returning a
// configuration holding the outermost block under blockType.
func labelled(blockType string, labels []string, body *configuration.Configuration) *configuration.Configuration {
	node := body
	for i := len(labels) - 1; i >= 0; i-- {
		if i < len(labels)-1 {
			inner := node
			node = configuration.New()
			node.SetConfiguration(strings.Repeat("sub", i+1)+blockType, inner)
		}
		node.SetString("name", labels[i])
	}
	out := configuration.New()
	out.SetConfiguration(blockType, node)
	return out
}

// ctyToValue converts an evaluated HCL value. ok is false for null values.
func ctyToValue(val cty.Value) (configuration.Value, bool, error) {
	if val.IsNull() {
		return configuration.Value{}, false, nil
	}
	if !val.IsWhollyKnown() {
		return configuration.Value{}, false, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty.IsPrimitiveType():
		s, err := ctyString(val)
		if err != nil {
			return configuration.Value{}, false, err
		}
		return configuration.StringValue(s), true, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		values := make([]string, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() {
				continue
			}
			s, err := ctyString(elem)
			if err != nil {
				return configuration.Value{}, false, err
			}
			values = append(values, s)
		}
		return configuration.StringArrayValue(values), true, nil

	case ty.IsObjectType() || ty.IsMapType():
		nested := configuration.New()
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			value, ok, err := ctyToValue(elem)
			if err != nil {
				return configuration.Value{}, false, fmt.Errorf("%s: %w", key.AsString(), err)
			}
			if ok {
				nested.Set(key.AsString(), value)
			}
		}
		return configuration.ConfigurationValue(nested), true, nil

	default:
		return configuration.Value{}, false, fmt.Errorf("unsupported type %s", ty.FriendlyName())
	}
}

func ctyString(val cty.Value) (string, error) {
	if !val.Type().IsPrimitiveType() {
		return "", fmt.Errorf("expected a string, number or bool, got %s", val.Type().FriendlyName())
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	return str.AsString(), nil
}

// EnvFromSpecification reads the root named options of spec from environ
// (os.Environ() form). Option "log-level" with prefix "APP" is read from
// APP_LOG_LEVEL; multi-value options split on commas. Unset variables are absent.
func EnvFromSpecification(spec *CommandSpecification, prefix string, environ []string) *configuration.Configuration {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}

	cfg := configuration.New()
	for _, name := range spec.NamedOptionNames() {
		value, ok := env[EnvKey(prefix, name)]
		if !ok {
			continue
		}
		details, _ := spec.FindNamedOption(name)
		if details.Type == OptionTypeMultiValue {
			cfg.SetStringArray(name, splitEnvList(value))
			continue
		}
		cfg.SetString(name, value)
	}
	return cfg
}

// EnvKey returns the environment variable read for option name
func EnvKey(prefix, name string) string {
	key := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
	if prefix == "" {
		return key
	}
	return strings.ToUpper(prefix) + "_" + key
}

func splitEnvList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
