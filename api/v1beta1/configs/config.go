// Package configs provides the Config and ConfigList document types.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/lintcfg/api"
	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen -kind Config -o config.v1beta1.json
//go:generate go run ../../../internal/schemagen -kind ConfigList -o configlist.v1beta1.json

const (
	// KindConfig is the kind of a flat configuration document. It is assumed
	// when a document omits its kind.
	KindConfig = "Config"
	// KindConfigList is the kind of a list-style configuration document.
	KindConfigList = "ConfigList"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	configSchemaJSON []byte

	//go:embed configlist.v1beta1.json
	configListSchemaJSON []byte

	// ValidKinds contains the valid kind values for configuration documents.
	ValidKinds = []string{KindConfig, KindConfigList}

	// DefaultValidator validates Config documents against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/config.v1beta1.json", configSchemaJSON)

	// DefaultListValidator validates ConfigList documents against the JSON schema.
	DefaultListValidator = yaml.MustNewValidator("/configlist.v1beta1.json", configListSchemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
	_ v1beta1.Object = (*ConfigList)(nil)
)

// Config is a flat configuration document. It describes a single layer.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	v1beta1.TypeMeta `json:",inline"`
	layer.Definition `json:",inline"`
}

// New creates a new, empty [Config].
func New() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults fills in the API version and kind.
func (c *Config) EnsureDefaults() {
	c.Default(KindConfig)
}

// Layer converts the document into a [layer.Layer].
func (c *Config) Layer(id, dir string) (*layer.Layer, error) {
	l, err := layer.New(id, dir, c.Definition)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", id, err)
	}

	return l, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, []string{KindConfig})
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// ConfigList is a list-style configuration document. Its entries are applied
// in order without an extends relation between them.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type ConfigList struct {
	v1beta1.TypeMeta `json:",inline"`
	// Configs are the entries of the list, weakest first.
	Configs []layer.Definition `json:"configs" jsonschema:"title=Configs"`
}

// NewList creates a new, empty [ConfigList].
func NewList() *ConfigList {
	c := &ConfigList{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults fills in the API version and kind.
func (c *ConfigList) EnsureDefaults() {
	c.Default(KindConfigList)
}

// Layers converts each entry into a [layer.Layer]. Entry ids are derived from
// the document id and the entry's index.
func (c *ConfigList) Layers(id, dir string) ([]*layer.Layer, error) {
	layers := make([]*layer.Layer, 0, len(c.Configs))

	for i, def := range c.Configs {
		l, err := layer.New(fmt.Sprintf("%s#configs[%d]", id, i), dir, def)
		if err != nil {
			return nil, fmt.Errorf("config list %s: %w", id, err)
		}

		layers = append(layers, l)
	}

	return layers, nil
}

func (c ConfigList) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, []string{KindConfigList})
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultConfigYAML...)
}
