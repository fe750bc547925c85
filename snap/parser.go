package snap

import (
	"strings"

	"github.com/dzonerzy/snapconf/configuration"
	"github.com/dzonerzy/snapconf/internal/fuzzy"
	snapio "github.com/dzonerzy/snapconf/io"
)

// DefaultRestKey is the entry that collects positional tokens no option claims
const DefaultRestKey = "args"

// maxSuggestionDistance bounds the edit distance of "did you mean" suggestions
const maxSuggestionDistance = 2

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithLogger traces token classification at debug level and reports
// unknown options as warnings.
func WithLogger(logger *snapio.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithStrict rejects unknown named options and positional tokens that no
// option claims, instead of storing them.
func WithStrict(strict bool) ParserOption {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithPositionalReset restarts positional numbering at 1 each time a command
// is entered. By default one counter spans the whole command line, so a
// command's own positional options continue the numbering of its parent.
//
// With reset on, a command's slots are looked up by their number within the
// command first and by their whole-line number second, so triggers declared
// by a chained AddCommand are still found. Root slots keep whole-line
// numbering and are never matched twice.
func WithPositionalReset(reset bool) ParserOption {
	return func(p *Parser) {
		p.resetPositional = reset
	}
}

// WithRestKey changes the entry that collects unclaimed positional tokens.
// An empty key discards them.
func WithRestKey(key string) ParserOption {
	return func(p *Parser) {
		p.restKey = key
	}
}

// scopeFrame pairs an active command specification with the configuration
// node its options are stored in. The first frame is the root.
type scopeFrame struct {
	spec   *CommandSpecification
	config *configuration.Configuration
}

// Parser turns an argument vector into a configuration tree according to a
// CommandSpecification. A Parser may be reused for several Parse calls but
// not concurrently.
type Parser struct {
	spec *CommandSpecification

	logger          *snapio.Logger
	strict          bool
	resetPositional bool
	restKey         string

	// Parse state, reset on every call
	argv         []string
	scopes       []scopeFrame
	position     int
	positional   int // whole command line
	local        int // since the last command was entered
	optionsEnded bool
}

// NewParser creates a parser for spec
func NewParser(spec *CommandSpecification, opts ...ParserOption) *Parser {
	if spec == nil {
		spec = NewCommandSpecification()
	}
	p := &Parser{
		spec:    spec,
		restKey: DefaultRestKey,
		scopes:  make([]scopeFrame, 0, 4),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses argv into a new configuration. argv[0] is the program name
// and is ignored.
func (p *Parser) Parse(argv []string) (*configuration.Configuration, error) {
	cfg := configuration.New()
	if err := p.parse(argv, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseInto parses argv and merges the result into cfg, which typically
// already holds defaults or values from other sources. cfg is left untouched
// when parsing fails.
func (p *Parser) ParseInto(argv []string, cfg *configuration.Configuration) error {
	if cfg == nil {
		return NewParseError(ErrorTypeInvalidArgument, "target configuration cannot be nil")
	}
	parsed := configuration.New()
	if err := p.parse(argv, parsed); err != nil {
		return err
	}
	cfg.Merge(parsed)
	return nil
}

func (p *Parser) parse(argv []string, cfg *configuration.Configuration) error {
	p.reset(cfg)
	p.argv = argv

	// Main parsing loop - single pass, left to right
	for p.position = 1; p.position < len(argv); p.position++ {
		arg := argv[p.position]
		if arg == "" {
			continue
		}
		if err := p.parseArgument(arg); err != nil {
			p.debug("parse aborted at token %d (%q): %v", p.position, arg, err)
			return err
		}
	}
	return nil
}

// parseArgument classifies a single token
func (p *Parser) parseArgument(arg string) error {
	if p.optionsEnded {
		return p.parsePositional(arg)
	}

	switch {
	case arg == "--":
		// "--" terminates option parsing; subsequent tokens are positional
		p.optionsEnded = true
		p.debug("option terminator at token %d", p.position)
		return nil
	case strings.HasPrefix(arg, "--"):
		return p.parseLongOption(arg)
	case len(arg) > 1 && arg[0] == '-':
		return p.parseShortOption(arg)
	default:
		return p.parsePositional(arg)
	}
}

// parseLongOption handles --name and --name=value
func (p *Parser) parseLongOption(arg string) error {
	name, value, hasValue := strings.Cut(arg[2:], "=")
	if name == "" {
		return p.malformed(arg, "option name cannot be empty")
	}

	details, inCurrent, found := p.findNamedOption(name)
	p.debug("long option %q (value %q, declared %v)", name, value, found)
	if !found {
		return p.unknownOption(arg, name, value)
	}
	return p.bindNamed(arg, name, value, hasValue, details, inCurrent)
}

// parseShortOption handles -s and -s=value. The short name is resolved to
// its long name; an unresolved short name is used as the key itself.
func (p *Parser) parseShortOption(arg string) error {
	short, value, hasValue := strings.Cut(arg[1:], "=")
	if short == "" {
		return p.malformed(arg, "option name cannot be empty")
	}

	name, details, inCurrent, found := p.findShortOption(short)
	p.debug("short option %q -> %q (value %q, declared %v)", short, name, value, found)
	if !found {
		return p.unknownOption(arg, short, value)
	}
	return p.bindNamed(arg, name, value, hasValue, details, inCurrent)
}

func (p *Parser) bindNamed(arg, name, value string, hasValue bool, details OptionDetails, inCurrent bool) error {
	if !hasValue && details.Type == OptionTypeToggle {
		value = "true"
	}
	if hasValue && len(details.AllowedValues) > 0 && !details.IsValueAllowed(value) {
		return &ParseError{
			Type:     ErrorTypeInvalidValue,
			Message:  "invalid value '" + value + "' for option " + name + " (allowed: " + strings.Join(details.AllowedValues, ", ") + ")",
			Flag:     name,
			Argument: arg,
			Position: p.position,
		}
	}

	if entered, err := p.enterCommand(name, value); entered || err != nil {
		return err
	}
	return p.store(p.target(inCurrent), name, value, details.Type)
}

// unknownOption stores an undeclared named option verbatim in the root node,
// or rejects it in strict mode. An undeclared option may still trigger a command.
func (p *Parser) unknownOption(arg, name, value string) error {
	if entered, err := p.enterCommand(name, value); entered || err != nil {
		return err
	}

	suggestion := fuzzy.FindBestFlag(name, p.knownOptionNames(), maxSuggestionDistance)
	if p.strict {
		return &ParseError{
			Type:       ErrorTypeUnknownFlag,
			Message:    "unknown option: " + arg,
			Flag:       name,
			Argument:   arg,
			Position:   p.position,
			Suggestion: suggestion,
		}
	}

	if p.logger != nil {
		if suggestion != "" {
			p.logger.Warning("unknown option %s (did you mean '%s'?)", arg, suggestion)
		} else {
			p.logger.Warning("unknown option %s", arg)
		}
	}
	return p.store(p.root().config, name, value, OptionTypeSingleValue)
}

// parsePositional binds a positional token to the option declared at the
// current position, current command first, then root.
func (p *Parser) parsePositional(token string) error {
	p.positional++
	p.local++
	name, details, inCurrent, found := p.findPositionalOption()
	p.debug("positional %d %q -> %q (declared %v)", p.positional, token, name, found)

	if !found {
		return p.unclaimedPositional(token)
	}
	if !details.IsValueAllowed(token) {
		return &ParseError{
			Type:     ErrorTypeInvalidValue,
			Message:  "invalid value '" + token + "' for " + name + " (allowed: " + strings.Join(details.AllowedValues, ", ") + ")",
			Flag:     name,
			Argument: token,
			Position: p.position,
		}
	}

	if entered, err := p.enterCommand(name, token); entered || err != nil {
		return err
	}
	return p.store(p.target(inCurrent), name, token, details.Type)
}

func (p *Parser) unclaimedPositional(token string) error {
	if p.strict {
		return &ParseError{
			Type:       ErrorTypeInvalidArgument,
			Message:    "unexpected argument: " + token,
			Argument:   token,
			Position:   p.position,
			Suggestion: fuzzy.FindBestCommand(token, p.knownCommandValues(), maxSuggestionDistance),
		}
	}
	if p.restKey == "" {
		return nil
	}
	return p.store(p.current().config, p.restKey, token, OptionTypeMultiValue)
}

// enterCommand descends into the command registered for (option, value) in
// the current scope, then the root. The command gets a nested configuration
// under option in the current node, holding its name.
func (p *Parser) enterCommand(option, value string) (bool, error) {
	current := p.current()
	cmd, ok := current.spec.FindCommand(option, value)
	if !ok && len(p.scopes) > 1 {
		cmd, ok = p.root().spec.FindCommand(option, value)
	}
	if !ok {
		return false, nil
	}

	if p.occupiedByCommand(current.config, option) {
		return false, p.commandConflict(option, value)
	}
	nested := configuration.New()
	nested.SetString("name", value)
	node := current.config.SetConfiguration(option, nested)
	p.scopes = append(p.scopes, scopeFrame{spec: cmd, config: node})
	p.local = 0
	p.debug("entered command %s=%s (depth %d)", option, value, len(p.scopes)-1)
	return true, nil
}

// store writes value under name. Multi-value options accumulate. An entry
// holding an entered command is never replaced.
func (p *Parser) store(node *configuration.Configuration, name, value string, optionType OptionType) error {
	if p.occupiedByCommand(node, name) {
		return p.commandConflict(name, value)
	}
	if optionType != OptionTypeMultiValue {
		node.SetString(name, value)
		return nil
	}

	existing, ok := node.Lookup(name)
	if !ok {
		node.SetStringArray(name, []string{value})
		return nil
	}
	switch existing.Type() {
	case configuration.TypeStringArray:
		values, _ := existing.AsStringArray()
		node.SetStringArray(name, append(values, value))
	case configuration.TypeString:
		s, _ := existing.AsString()
		node.SetStringArray(name, []string{s, value})
	default:
		node.SetStringArray(name, []string{value})
	}
	return nil
}

// occupiedByCommand reports whether node already holds a command under name
func (p *Parser) occupiedByCommand(node *configuration.Configuration, name string) bool {
	existing, ok := node.Lookup(name)
	return ok && existing.Type() == configuration.TypeConfiguration
}

func (p *Parser) commandConflict(name, value string) error {
	return &ParseError{
		Type:     ErrorTypeInvalidArgument,
		Message:  "cannot set " + name + "=" + value + ": " + name + " already selected a command",
		Flag:     name,
		Argument: p.argument(),
		Position: p.position,
	}
}

// target returns the node an option lands in: the current node when the
// option was declared by the current command, the root otherwise.
func (p *Parser) target(inCurrent bool) *configuration.Configuration {
	if inCurrent {
		return p.current().config
	}
	return p.root().config
}

func (p *Parser) findNamedOption(name string) (OptionDetails, bool, bool) {
	if details, ok := p.current().spec.FindNamedOption(name); ok {
		return details, true, true
	}
	if details, ok := p.root().spec.FindNamedOption(name); ok {
		return details, false, true
	}
	return OptionDetails{}, false, false
}

func (p *Parser) findShortOption(short string) (string, OptionDetails, bool, bool) {
	if name, details, ok := p.current().spec.FindShortNamedOption(short); ok {
		return name, details, true, true
	}
	if name, details, ok := p.root().spec.FindShortNamedOption(short); ok {
		return name, details, false, true
	}
	return short, OptionDetails{}, false, false
}

// findPositionalOption resolves the current slot by exact index (current
// scope, then root) and falls back to a trailing multi-value option that
// absorbs it. Root slots always use whole-line numbering.
func (p *Parser) findPositionalOption() (string, OptionDetails, bool, bool) {
	current, root := p.current().spec, p.root().spec
	index := p.positional
	if p.resetPositional && len(p.scopes) > 1 {
		if name, details, ok := current.FindPositionalOption(p.local); ok {
			return name, details, true, true
		}
	}
	if name, details, ok := current.FindPositionalOption(index); ok {
		return name, details, true, true
	}
	if name, details, ok := root.FindPositionalOption(index); ok {
		return name, details, false, true
	}
	variadicIndex := index
	if p.resetPositional && len(p.scopes) > 1 {
		variadicIndex = p.local
	}
	if name, details, ok := current.findVariadicOption(variadicIndex); ok {
		return name, details, true, true
	}
	if name, details, ok := root.findVariadicOption(index); ok {
		return name, details, false, true
	}
	return "", OptionDetails{}, false, false
}

func (p *Parser) knownOptionNames() []string {
	names := p.current().spec.NamedOptionNames()
	if len(p.scopes) > 1 {
		names = append(names, p.root().spec.NamedOptionNames()...)
	}
	return names
}

func (p *Parser) knownCommandValues() []string {
	values := p.current().spec.CommandValues()
	if len(p.scopes) > 1 {
		values = append(values, p.root().spec.CommandValues()...)
	}
	return values
}

func (p *Parser) malformed(arg, message string) error {
	return &ParseError{
		Type:     ErrorTypeMalformedInput,
		Message:  "malformed option " + arg + ": " + message,
		Argument: arg,
		Position: p.position,
	}
}

func (p *Parser) argument() string {
	if p.position >= len(p.argv) {
		return ""
	}
	return p.argv[p.position]
}

func (p *Parser) current() scopeFrame {
	return p.scopes[len(p.scopes)-1]
}

func (p *Parser) root() scopeFrame {
	return p.scopes[0]
}

func (p *Parser) reset(cfg *configuration.Configuration) {
	p.scopes = append(p.scopes[:0], scopeFrame{spec: p.spec, config: cfg})
	p.position = 0
	p.positional = 0
	p.local = 0
	p.optionsEnded = false
}

func (p *Parser) debug(format string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(format, args...)
	}
}

// Parse is a convenience wrapper around NewParser(spec, opts...).Parse(argv)
func Parse(spec *CommandSpecification, argv []string, opts ...ParserOption) (*configuration.Configuration, error) {
	return NewParser(spec, opts...).Parse(argv)
}
