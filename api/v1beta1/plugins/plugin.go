// Package plugins provides the Plugin and SharedConfig manifest types.
//
// Plugin manifests describe the rules a plugin exports and the presets it
// contributes. SharedConfig manifests describe a single shareable preset.
// Both are read by directory sources of the plugin registry.
package plugins

import (
	"fmt"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen -kind Plugin -o plugin.v1beta1.json
//go:generate go run ../../../internal/schemagen -kind SharedConfig -o sharedconfig.v1beta1.json

const (
	// KindPlugin is the kind of a plugin manifest.
	KindPlugin = "Plugin"
	// KindSharedConfig is the kind of a shareable config manifest.
	KindSharedConfig = "SharedConfig"
)

var (
	//go:embed plugin.v1beta1.json
	pluginSchemaJSON []byte

	//go:embed sharedconfig.v1beta1.json
	sharedConfigSchemaJSON []byte

	// ValidKinds contains the valid kind values for manifests.
	ValidKinds = []string{KindPlugin, KindSharedConfig}

	// DefaultPluginValidator validates Plugin manifests against the JSON schema.
	DefaultPluginValidator = yaml.MustNewValidator("/plugin.v1beta1.json", pluginSchemaJSON)

	// DefaultSharedConfigValidator validates SharedConfig manifests against
	// the JSON schema.
	DefaultSharedConfigValidator = yaml.MustNewValidator("/sharedconfig.v1beta1.json", sharedConfigSchemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Plugin)(nil)
	_ v1beta1.Object = (*SharedConfig)(nil)
)

// Plugin is a plugin manifest.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Plugin struct {
	// Configs are the presets contributed by the plugin, referenced as
	// "plugin:<name>/<config>".
	Configs          map[string]layer.Definition `json:"configs,omitempty" jsonschema:"title=Configs"`
	v1beta1.TypeMeta `json:",inline"`
	// Name is the plugin identifier used in "plugins" lists and rule keys.
	Name string `json:"name" jsonschema:"title=Name"`
	// Rules are the rule names exported by the plugin, without the plugin
	// prefix. An empty list means the plugin does not declare its rules.
	Rules []string `json:"rules,omitempty" jsonschema:"title=Rules"`
}

// NewPlugin creates a new [Plugin] manifest.
func NewPlugin(name string) *Plugin {
	p := &Plugin{Name: name}
	p.EnsureDefaults()

	return p
}

// EnsureDefaults fills in the API version and kind.
func (p *Plugin) EnsureDefaults() {
	p.Default(KindPlugin)
}

// ConfigNames returns the sorted names of the plugin's presets.
func (p *Plugin) ConfigNames() []string {
	return slices.Sorted(maps.Keys(p.Configs))
}

// ConfigLayer converts the named preset into a [layer.Layer] with the given id.
func (p *Plugin) ConfigLayer(id, dir, name string) (*layer.Layer, bool, error) {
	def, ok := p.Configs[name]
	if !ok {
		return nil, false, nil
	}

	l, err := layer.New(id, dir, def)
	if err != nil {
		return nil, true, fmt.Errorf("plugin %s: config %s: %w", p.Name, name, err)
	}

	return l, true, nil
}

func (p Plugin) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, []string{KindPlugin})
}

// SharedConfig is a shareable config manifest.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type SharedConfig struct {
	v1beta1.TypeMeta `json:",inline"`
	// Name is the shareable config's name, e.g. "eslint-config-standard".
	Name             string `json:"name" jsonschema:"title=Name"`
	layer.Definition `json:",inline"`
}

// NewSharedConfig creates a new [SharedConfig] manifest.
func NewSharedConfig(name string) *SharedConfig {
	c := &SharedConfig{Name: name}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults fills in the API version and kind.
func (c *SharedConfig) EnsureDefaults() {
	c.Default(KindSharedConfig)
}

// Layer converts the manifest into a [layer.Layer] with the given id.
func (c *SharedConfig) Layer(id, dir string) (*layer.Layer, error) {
	l, err := layer.New(id, dir, c.Definition)
	if err != nil {
		return nil, fmt.Errorf("shared config %s: %w", c.Name, err)
	}

	return l, nil
}

func (c SharedConfig) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, []string{KindSharedConfig})
}
