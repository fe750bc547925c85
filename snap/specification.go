package snap

import (
	"sort"

	"github.com/dzonerzy/snapconf/configuration"
)

type positionalEntry struct {
	name    string
	details OptionDetails
}

// commandKey identifies a nested command: the option that triggers it and
// the value that option must take.
type commandKey struct {
	option string
	value  string
}

// CommandSpecification is one node of the command-line grammar: named and
// positional options plus nested commands keyed by (option name, value).
// The root node describes the whole command line; nested nodes are reached
// when their trigger option takes their trigger value.
//
// Lookups only consult this node. The parser decides how scopes chain.
type CommandSpecification struct {
	named      map[string]OptionDetails
	shortNames map[string]string // short name -> long name
	positional map[int]positionalEntry
	commands   map[commandKey]*CommandSpecification
}

// NewCommandSpecification creates an empty specification node
func NewCommandSpecification() *CommandSpecification {
	return &CommandSpecification{
		named:      make(map[string]OptionDetails),
		shortNames: make(map[string]string),
		positional: make(map[int]positionalEntry),
		commands:   make(map[commandKey]*CommandSpecification),
	}
}

// AddNamedOption registers a long option. details.ShortName, when set, is
// registered as its short alias.
func (s *CommandSpecification) AddNamedOption(name string, details OptionDetails) error {
	if name == "" {
		return invalidSpecification(name, "option name cannot be empty")
	}
	if _, exists := s.named[name]; exists {
		return duplicateOption("option", name)
	}
	if details.ShortName != "" {
		if _, exists := s.shortNames[details.ShortName]; exists {
			return duplicateOption("short option", details.ShortName)
		}
		s.shortNames[details.ShortName] = name
	}
	s.named[name] = details
	return nil
}

// AddShortNamedOption registers a long option together with its short alias
func (s *CommandSpecification) AddShortNamedOption(name, shortName string, details OptionDetails) error {
	if shortName == "" {
		return invalidSpecification(name, "short option name cannot be empty")
	}
	return s.AddNamedOption(name, details.WithShortName(shortName))
}

// AddPositionalOption registers the option bound to the 1-based positional slot index
func (s *CommandSpecification) AddPositionalOption(index int, name string, details OptionDetails) error {
	if index < 1 {
		return invalidSpecification(name, "positional index must be 1 or greater")
	}
	if name == "" {
		return invalidSpecification(name, "option name cannot be empty")
	}
	if existing, exists := s.positional[index]; exists {
		return duplicateOption("positional slot for", existing.name)
	}
	s.positional[index] = positionalEntry{name: name, details: details}
	return nil
}

// AddCommand registers the command entered when option takes value, and
// returns its specification so the caller can populate it. Registering the
// same (option, value) twice returns the existing node.
//
// Each chained value declares a further nested command triggered by the
// option "sub"+option: AddCommand("command", "build", "docker") declares
// "build" and, inside it, "docker" triggered by "subcommand". When option is
// positional in this node at index i, the nested trigger is positional at i+1;
// otherwise it is a named option. When slot i+1 already holds another
// option, that option becomes the nested trigger instead, so the chained
// command stays reachable. The deepest node is returned.
func (s *CommandSpecification) AddCommand(option, value string, chained ...string) *CommandSpecification {
	key := commandKey{option: option, value: value}
	cmd, ok := s.commands[key]
	if !ok {
		cmd = NewCommandSpecification()
		s.commands[key] = cmd
	}
	if len(chained) == 0 {
		return cmd
	}

	subOption := "sub" + option
	if index, ok := s.positionalIndex(option); ok {
		entry, exists := cmd.positional[index+1]
		if !exists {
			entry = positionalEntry{name: subOption, details: SingleValue()}
			cmd.positional[index+1] = entry
		}
		subOption = entry.name
	} else if _, exists := cmd.named[subOption]; !exists {
		cmd.named[subOption] = SingleValue()
	}
	return cmd.AddCommand(subOption, chained[0], chained[1:]...)
}

// FindNamedOption looks up a long option in this node
func (s *CommandSpecification) FindNamedOption(name string) (OptionDetails, bool) {
	details, ok := s.named[name]
	return details, ok
}

// FindShortNamedOption resolves a short alias to its long name and details
func (s *CommandSpecification) FindShortNamedOption(shortName string) (string, OptionDetails, bool) {
	name, ok := s.shortNames[shortName]
	if !ok {
		return "", OptionDetails{}, false
	}
	return name, s.named[name], true
}

// FindPositionalOption looks up the option declared at a 1-based slot
func (s *CommandSpecification) FindPositionalOption(index int) (string, OptionDetails, bool) {
	entry, ok := s.positional[index]
	if !ok {
		return "", OptionDetails{}, false
	}
	return entry.name, entry.details, true
}

// FindCommand looks up the command entered when option takes value
func (s *CommandSpecification) FindCommand(option, value string) (*CommandSpecification, bool) {
	cmd, ok := s.commands[commandKey{option: option, value: value}]
	return cmd, ok
}

// CreateDefaultConfiguration returns a configuration holding the default of
// every named option that declares one. Options without defaults are absent.
func (s *CommandSpecification) CreateDefaultConfiguration() *configuration.Configuration {
	cfg := configuration.New()
	for name, details := range s.named {
		if value, ok := details.DefaultValue(); ok {
			cfg.Set(name, value)
		}
	}
	return cfg
}

// NamedOptionNames returns the long option names of this node, sorted
func (s *CommandSpecification) NamedOptionNames() []string {
	names := make([]string, 0, len(s.named))
	for name := range s.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandValues returns the trigger values of the commands declared in this node, sorted
func (s *CommandSpecification) CommandValues() []string {
	values := make([]string, 0, len(s.commands))
	for key := range s.commands {
		values = append(values, key.value)
	}
	sort.Strings(values)
	return values
}

// findVariadicOption returns the multi-value positional option that absorbs
// slot index: the option at the highest declared slot, when it is multi-value
// and index lies beyond it.
func (s *CommandSpecification) findVariadicOption(index int) (string, OptionDetails, bool) {
	last := 0
	for i := range s.positional {
		if i > last {
			last = i
		}
	}
	if last == 0 || index <= last {
		return "", OptionDetails{}, false
	}
	entry := s.positional[last]
	if entry.details.Type != OptionTypeMultiValue {
		return "", OptionDetails{}, false
	}
	return entry.name, entry.details, true
}

func (s *CommandSpecification) positionalIndex(name string) (int, bool) {
	for index, entry := range s.positional {
		if entry.name == name {
			return index, true
		}
	}
	return 0, false
}
