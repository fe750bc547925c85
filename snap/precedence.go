package snap

import (
	"fmt"
	"strings"

	"github.com/dzonerzy/snapconf/configuration"
)

// SourceType represents the type of configuration source
type SourceType int

const (
	SourceTypeDefaults SourceType = iota
	SourceTypeFile
	SourceTypeEnv
	SourceTypeFlags
)

// String returns a human-readable source type name
func (s SourceType) String() string {
	switch s {
	case SourceTypeDefaults:
		return "Defaults"
	case SourceTypeFile:
		return "Files"
	case SourceTypeEnv:
		return "Environment"
	case SourceTypeFlags:
		return "Flags"
	default:
		return "Unknown"
	}
}

// ConfigSource represents a configuration source with data and priority
type ConfigSource struct {
	Type     SourceType
	Name     string // file path, env prefix, ... for diagnostics
	Data     *configuration.Configuration
	Priority int
}

// PrecedenceManager merges configuration sources by priority
type PrecedenceManager struct {
	sources []ConfigSource
}

// NewPrecedenceManager creates a new precedence manager
func NewPrecedenceManager() *PrecedenceManager {
	return &PrecedenceManager{
		sources: make([]ConfigSource, 0, 4),
	}
}

// AddSource adds a configuration source; its priority is its type
func (pm *PrecedenceManager) AddSource(sourceType SourceType, data *configuration.Configuration) {
	pm.AddNamedSource(sourceType, "", data)
}

// AddNamedSource adds a configuration source labelled for DebugPrecedence
func (pm *PrecedenceManager) AddNamedSource(sourceType SourceType, name string, data *configuration.Configuration) {
	if data == nil {
		return
	}
	pm.sources = append(pm.sources, ConfigSource{
		Type:     sourceType,
		Name:     name,
		Data:     data,
		Priority: int(sourceType),
	})
}

// Resolve merges the sources into a new configuration.
// Sources are applied lowest priority first, in insertion order within a
// priority, so later and higher sources win. Nested configurations merge
// entry by entry.
func (pm *PrecedenceManager) Resolve() *configuration.Configuration {
	result := configuration.New()
	pm.each(func(source ConfigSource) {
		result.Merge(source.Data)
	})
	return result
}

// ConfigurationPrecedence documents the precedence order
const ConfigurationPrecedence = `
Configuration Precedence (highest to lowest):
1. Command line arguments    (Priority 3)
2. Environment variables     (Priority 2)
3. Configuration files       (Priority 1)
4. Default values            (Priority 0)

When the same configuration key is found in multiple sources,
the source with higher precedence wins.
`

// DebugPrecedence returns a debug string showing how configuration was resolved
func (pm *PrecedenceManager) DebugPrecedence() string {
	var debug strings.Builder
	debug.WriteString("Configuration Sources (in resolution order):\n")

	pm.each(func(source ConfigSource) {
		label := source.Type.String()
		if source.Name != "" {
			label += " " + source.Name
		}
		debug.WriteString(fmt.Sprintf("  Priority %d (%s): %d keys\n",
			source.Priority, label, source.Data.Size()))
	})
	return debug.String()
}

func (pm *PrecedenceManager) each(fn func(ConfigSource)) {
	for priority := int(SourceTypeDefaults); priority <= int(SourceTypeFlags); priority++ {
		for _, source := range pm.sources {
			if source.Priority == priority {
				fn(source)
			}
		}
	}
}
