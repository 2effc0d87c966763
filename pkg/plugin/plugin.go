package plugin

import (
	"errors"
	"maps"
	"slices"

	"github.com/macropower/lintcfg/pkg/layer"
)

var (
	// ErrNotFound is returned when a plugin or preset does not exist in any
	// source.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference is returned for malformed preset references.
	ErrInvalidReference = errors.New("invalid preset reference")
)

// Plugin is an immutable plugin definition.
type Plugin struct {
	configs map[string]*layer.Layer
	name    string
	rules   []string
}

// New creates a [Plugin]. The rules are the rule names the plugin exports,
// without the plugin prefix; nil means the plugin does not declare its rules.
func New(name string, rules []string, configs map[string]*layer.Layer) *Plugin {
	return &Plugin{
		name:    NormalizePluginName(name),
		rules:   slices.Clone(rules),
		configs: maps.Clone(configs),
	}
}

// Name returns the plugin's normalized name.
func (p *Plugin) Name() string { return p.name }

// Rules returns a copy of the rule names the plugin exports.
func (p *Plugin) Rules() []string { return slices.Clone(p.rules) }

// DeclaresRules reports whether the plugin lists the rules it exports.
func (p *Plugin) DeclaresRules() bool { return len(p.rules) > 0 }

// HasRule reports whether the plugin exports the named rule. It is always
// true for plugins that do not declare their rules.
func (p *Plugin) HasRule(name string) bool {
	return !p.DeclaresRules() || slices.Contains(p.rules, name)
}

// Config returns the named preset.
func (p *Plugin) Config(name string) (*layer.Layer, bool) {
	l, ok := p.configs[name]
	return l, ok
}

// ConfigNames returns the sorted names of the plugin's presets.
func (p *Plugin) ConfigNames() []string {
	return slices.Sorted(maps.Keys(p.configs))
}
