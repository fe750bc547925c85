package snap

import (
	"errors"
	"io/fs"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/dzonerzy/snapconf/configuration"
	snapio "github.com/dzonerzy/snapconf/io"
)

// ConfigBuilder assembles a configuration from defaults, files, environment
// and command-line arguments, merged by PrecedenceManager. Source errors are
// collected and reported together by Build.
//
//	cfg, err := snap.NewConfigBuilder(spec).
//		FromDefaults().
//		FromFile("app.hcl").
//		FromEnv("APP").
//		FromArgs(os.Args).
//		Build()
type ConfigBuilder struct {
	spec              *CommandSpecification
	logger            *snapio.Logger
	precedenceManager *PrecedenceManager
	target            any
	errs              *multierror.Error
}

// NewConfigBuilder creates a builder for spec
func NewConfigBuilder(spec *CommandSpecification) *ConfigBuilder {
	if spec == nil {
		spec = NewCommandSpecification()
	}
	return &ConfigBuilder{
		spec:              spec,
		precedenceManager: NewPrecedenceManager(),
	}
}

// WithLogger reports loaded sources and is handed to the argument parser
func (cb *ConfigBuilder) WithLogger(logger *snapio.Logger) *ConfigBuilder {
	cb.logger = logger
	return cb
}

// Bind makes Build copy the resolved configuration into target, a pointer to struct
func (cb *ConfigBuilder) Bind(target any) *ConfigBuilder {
	cb.target = target
	return cb
}

// FromDefaults adds the defaults declared by the root specification
func (cb *ConfigBuilder) FromDefaults() *ConfigBuilder {
	cb.add(SourceTypeDefaults, "", cb.spec.CreateDefaultConfiguration())
	return cb
}

// FromConfiguration adds an already built configuration as a source of the given type
func (cb *ConfigBuilder) FromConfiguration(sourceType SourceType, cfg *configuration.Configuration) *ConfigBuilder {
	cb.add(sourceType, "", cfg)
	return cb
}

// FromFile adds a .json or .hcl file. A missing file is skipped.
func (cb *ConfigBuilder) FromFile(path string) *ConfigBuilder {
	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cb.debug("config file %s not found, skipping", path)
		return cb
	}
	if err != nil {
		cb.errs = multierror.Append(cb.errs, err)
		return cb
	}
	cb.add(SourceTypeFile, path, cfg)
	return cb
}

// FromEnv adds the process environment, see EnvFromSpecification
func (cb *ConfigBuilder) FromEnv(prefix string) *ConfigBuilder {
	return cb.FromEnviron(prefix, os.Environ())
}

// FromEnviron adds an environment given in os.Environ() form
func (cb *ConfigBuilder) FromEnviron(prefix string, environ []string) *ConfigBuilder {
	cb.add(SourceTypeEnv, prefix, EnvFromSpecification(cb.spec, prefix, environ))
	return cb
}

// FromArgs parses argv (program name first) and adds the result
func (cb *ConfigBuilder) FromArgs(argv []string, opts ...ParserOption) *ConfigBuilder {
	if cb.logger != nil {
		opts = append([]ParserOption{WithLogger(cb.logger)}, opts...)
	}
	cfg, err := NewParser(cb.spec, opts...).Parse(argv)
	if err != nil {
		cb.errs = multierror.Append(cb.errs, err)
		return cb
	}
	cb.add(SourceTypeFlags, "", cfg)
	return cb
}

// Precedence exposes the underlying manager, e.g. for DebugPrecedence
func (cb *ConfigBuilder) Precedence() *PrecedenceManager {
	return cb.precedenceManager
}

// Build resolves the sources. It fails with every source error collected so far.
func (cb *ConfigBuilder) Build() (*configuration.Configuration, error) {
	if err := cb.errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	resolved := cb.precedenceManager.Resolve()
	cb.debug("resolved configuration: %s", resolved)
	if cb.target != nil {
		if err := resolved.Bind(cb.target); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func (cb *ConfigBuilder) add(sourceType SourceType, name string, cfg *configuration.Configuration) {
	cb.precedenceManager.AddNamedSource(sourceType, name, cfg)
	label := sourceType.String()
	if name != "" {
		label += " " + name
	}
	cb.debug("added %s source (%d keys)", label, cfg.Size())
}

func (cb *ConfigBuilder) debug(format string, args ...any) {
	if cb.logger != nil {
		cb.logger.Debug(format, args...)
	}
}
