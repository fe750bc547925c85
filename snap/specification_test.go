//nolint:testpackage // using package name 'snap' to access unexported fields for testing
package snap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dzonerzy/snapconf/configuration"
)

func TestAddNamedOption(t *testing.T) {
	spec := NewCommandSpecification()
	if err := spec.AddNamedOption("output", SingleValue().WithShortName("o")); err != nil {
		t.Fatalf("AddNamedOption failed: %v", err)
	}

	if _, ok := spec.FindNamedOption("output"); !ok {
		t.Error("Expected output to be registered")
	}
	name, details, ok := spec.FindShortNamedOption("o")
	if !ok || name != "output" || details.Type != OptionTypeSingleValue {
		t.Errorf("Expected -o to resolve to output, got %q %v %v", name, details.Type, ok)
	}
	if _, _, ok := spec.FindShortNamedOption("x"); ok {
		t.Error("Expected unknown short name to be absent")
	}
}

func TestAddNamedOptionErrors(t *testing.T) {
	spec := NewCommandSpecification()
	if err := spec.AddShortNamedOption("verbose", "v", Toggle()); err != nil {
		t.Fatalf("AddShortNamedOption failed: %v", err)
	}

	tests := []struct {
		name    string
		add     func() error
		errType ErrorType
	}{
		{"duplicate long name", func() error { return spec.AddNamedOption("verbose", Toggle()) }, ErrorTypeDuplicateOption},
		{"duplicate short name", func() error { return spec.AddShortNamedOption("version", "v", Toggle()) }, ErrorTypeDuplicateOption},
		{"empty name", func() error { return spec.AddNamedOption("", SingleValue()) }, ErrorTypeInvalidSpecification},
		{"empty short name", func() error { return spec.AddShortNamedOption("quiet", "", Toggle()) }, ErrorTypeInvalidSpecification},
		{"positional index zero", func() error { return spec.AddPositionalOption(0, "file", SingleValue()) }, ErrorTypeInvalidSpecification},
		{"positional empty name", func() error { return spec.AddPositionalOption(1, "", SingleValue()) }, ErrorTypeInvalidSpecification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.add()
			var specErr *SpecError
			if !errors.As(err, &specErr) || specErr.Type != tt.errType {
				t.Errorf("Expected SpecError of type %s, got %v", tt.errType, err)
			}
		})
	}

	// A rejected short name must not register the long name
	if _, ok := spec.FindNamedOption("version"); ok {
		t.Error("Expected version to stay unregistered after a short-name clash")
	}
}

func TestAddPositionalOption(t *testing.T) {
	spec := NewCommandSpecification()
	if err := spec.AddPositionalOption(1, "source", SingleValue()); err != nil {
		t.Fatalf("AddPositionalOption failed: %v", err)
	}
	err := spec.AddPositionalOption(1, "destination", SingleValue())
	if !errors.Is(err, ErrDuplicateOption) {
		t.Errorf("Expected ErrDuplicateOption for a reused slot, got %v", err)
	}

	name, _, ok := spec.FindPositionalOption(1)
	if !ok || name != "source" {
		t.Errorf("Expected slot 1 to hold source, got %q", name)
	}
	if _, _, ok := spec.FindPositionalOption(2); ok {
		t.Error("Expected slot 2 to be empty")
	}
}

func TestAddCommandReturnsExistingScope(t *testing.T) {
	spec := NewCommandSpecification()
	first := spec.AddCommand("command", "build")
	second := spec.AddCommand("command", "build")
	if first != second {
		t.Error("Expected the same scope for a repeated (option, value)")
	}
	if other := spec.AddCommand("command", "test"); other == first {
		t.Error("Expected a distinct scope for another value")
	}

	found, ok := spec.FindCommand("command", "build")
	if !ok || found != first {
		t.Error("FindCommand did not return the registered scope")
	}
	if _, ok := spec.FindCommand("command", "deploy"); ok {
		t.Error("Expected unknown command to be absent")
	}
	if diff := cmp.Diff([]string{"build", "test"}, spec.CommandValues()); diff != "" {
		t.Errorf("CommandValues mismatch (-want +got):\n%s", diff)
	}
}

func TestAddCommandChainedPositional(t *testing.T) {
	spec := NewCommandSpecification()
	if err := spec.AddPositionalOption(1, "command", SingleValue()); err != nil {
		t.Fatal(err)
	}

	deepest := spec.AddCommand("command", "command1", "subcommand1")

	command1, ok := spec.FindCommand("command", "command1")
	if !ok {
		t.Fatal("Expected command1 to be registered")
	}
	name, _, ok := command1.FindPositionalOption(2)
	if !ok || name != "subcommand" {
		t.Fatalf("Expected positional slot 2 'subcommand' in command1, got %q %v", name, ok)
	}
	sub, ok := command1.FindCommand("subcommand", "subcommand1")
	if !ok || sub != deepest {
		t.Error("Expected AddCommand to return the deepest scope")
	}

	// Extending the chain reuses existing scopes and continues the slots
	subsub := spec.AddCommand("command", "command1", "subcommand1", "leaf")
	if name, _, ok := deepest.FindPositionalOption(3); !ok || name != "subsubcommand" {
		t.Errorf("Expected slot 3 'subsubcommand', got %q %v", name, ok)
	}
	if found, ok := deepest.FindCommand("subsubcommand", "leaf"); !ok || found != subsub {
		t.Error("Expected leaf scope under subsubcommand")
	}
}

func TestAddCommandChainedReusesOccupiedSlot(t *testing.T) {
	spec := NewCommandSpecification()
	_ = spec.AddPositionalOption(1, "command", SingleValue())
	build := spec.AddCommand("command", "build")
	_ = build.AddPositionalOption(2, "target", MultiValue())

	docker := spec.AddCommand("command", "build", "docker")

	if name, details, ok := build.FindPositionalOption(2); !ok || name != "target" || details.Type != OptionTypeMultiValue {
		t.Errorf("Expected slot 2 to keep target, got %q %v", name, ok)
	}
	if found, ok := build.FindCommand("target", "docker"); !ok || found != docker {
		t.Error("Expected docker to be triggered by the option already at slot 2")
	}
	if _, ok := build.FindCommand("subcommand", "docker"); ok {
		t.Error("Expected no unreachable subcommand trigger")
	}
}

func TestAddCommandChainedNamed(t *testing.T) {
	spec := NewCommandSpecification()
	deepest := spec.AddCommand("mode", "remote", "ssh")

	remote, _ := spec.FindCommand("mode", "remote")
	if _, ok := remote.FindNamedOption("submode"); !ok {
		t.Error("Expected named trigger 'submode' in remote scope")
	}
	if found, ok := remote.FindCommand("submode", "ssh"); !ok || found != deepest {
		t.Error("Expected ssh scope under submode")
	}
}

func TestCreateDefaultConfiguration(t *testing.T) {
	spec := NewCommandSpecification()
	_ = spec.AddNamedOption("host", SingleValue().WithDefault("localhost"))
	_ = spec.AddNamedOption("port", SingleValue())
	_ = spec.AddNamedOption("tags", MultiValue().WithDefaults("a", "b"))
	_ = spec.AddNamedOption("debug", Toggle().WithDefault("false"))

	cfg := spec.CreateDefaultConfiguration()

	if cfg.Size() != 3 {
		t.Errorf("Expected 3 defaults, got %d: %s", cfg.Size(), cfg)
	}
	if s := cfg.StringOrDefault("host", ""); s != "localhost" {
		t.Errorf("Expected host default, got %q", s)
	}
	if _, ok := cfg.Lookup("port"); ok {
		t.Error("Expected option without default to be absent")
	}
	tags, _ := cfg.ValueOrDefault("tags", configuration.Value{}).AsStringArray()
	if diff := cmp.Diff([]string{"a", "b"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestFindVariadicOption(t *testing.T) {
	spec := NewCommandSpecification()
	_ = spec.AddPositionalOption(1, "command", SingleValue())
	_ = spec.AddPositionalOption(2, "files", MultiValue())

	if _, _, ok := spec.findVariadicOption(2); ok {
		t.Error("Slot 2 is declared, not absorbed")
	}
	name, _, ok := spec.findVariadicOption(5)
	if !ok || name != "files" {
		t.Errorf("Expected slot 5 absorbed by files, got %q %v", name, ok)
	}

	single := NewCommandSpecification()
	_ = single.AddPositionalOption(1, "file", SingleValue())
	if _, _, ok := single.findVariadicOption(2); ok {
		t.Error("A single-value option must not absorb later slots")
	}
}

func TestOptionDetails(t *testing.T) {
	base := SingleValue()
	restricted := base.WithAllowedValues("json", "yaml").WithDescription("output format")

	if len(base.AllowedValues) != 0 {
		t.Error("With* must not modify the receiver")
	}
	if restricted.Description != "output format" {
		t.Errorf("Unexpected description %q", restricted.Description)
	}

	tests := []struct {
		details OptionDetails
		token   string
		want    bool
	}{
		{base, "anything", true},
		{base, "", false},
		{restricted, "json", true},
		{restricted, "xml", false},
	}
	for _, tt := range tests {
		if got := tt.details.IsValueAllowed(tt.token); got != tt.want {
			t.Errorf("IsValueAllowed(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}

	if _, ok := base.DefaultValue(); ok {
		t.Error("Expected no default")
	}
	if v, ok := base.WithDefault("x").DefaultValue(); !ok || v.String() != "x" {
		t.Errorf("Expected default x, got %v", v)
	}
}
