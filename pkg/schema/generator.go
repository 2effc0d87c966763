package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/api/v1beta1/configs"
	"github.com/macropower/lintcfg/api/v1beta1/plugins"
)

// BaseURL is the prefix of generated schema ids.
const BaseURL = "https://raw.githubusercontent.com/macropower/lintcfg/refs/heads/main/api/v1beta1"

// ErrUnknownKind is returned for kinds without a schema.
var ErrUnknownKind = errors.New("unknown kind")

// Kind describes a document kind with a schema.
type Kind struct {
	New func() v1beta1.Object
	// File is the schema file name, relative to the kind's api package.
	File string
	// Package is the api package directory, relative to [BaseURL].
	Package string
}

// Kinds contains every document kind with a schema.
var Kinds = map[string]Kind{
	configs.KindConfig: {
		New:     func() v1beta1.Object { return configs.New() },
		File:    "config.v1beta1.json",
		Package: "configs",
	},
	configs.KindConfigList: {
		New:     func() v1beta1.Object { return configs.NewList() },
		File:    "configlist.v1beta1.json",
		Package: "configs",
	},
	plugins.KindPlugin: {
		New:     func() v1beta1.Object { return plugins.NewPlugin("") },
		File:    "plugin.v1beta1.json",
		Package: "plugins",
	},
	plugins.KindSharedConfig: {
		New:     func() v1beta1.Object { return plugins.NewSharedConfig("") },
		File:    "sharedconfig.v1beta1.json",
		Package: "plugins",
	},
}

// KindNames returns the names of [Kinds] in sorted order.
func KindNames() []string {
	return slices.Sorted(maps.Keys(Kinds))
}

// Generator reflects JSON schemas from document types.
type Generator struct {
	reflector *jsonschema.Reflector
}

// NewGenerator creates a new [Generator].
func NewGenerator() *Generator {
	return &Generator{
		reflector: &jsonschema.Reflector{
			FieldNameTag: "json",
		},
	}
}

// Generate returns the indented JSON schema of the named kind.
func (g *Generator) Generate(kind string) ([]byte, error) {
	k, ok := Kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownKind, kind, KindNames())
	}

	jss := g.reflector.Reflect(k.New())
	jss.ID = jsonschema.ID(fmt.Sprintf("%s/%s/%s", BaseURL, k.Package, k.File))

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

// GenerateAll returns the schemas of all kinds, keyed by kind.
func (g *Generator) GenerateAll() (map[string][]byte, error) {
	out := make(map[string][]byte, len(Kinds))

	for _, kind := range KindNames() {
		data, err := g.Generate(kind)
		if err != nil {
			return nil, err
		}

		out[kind] = data
	}

	return out, nil
}
