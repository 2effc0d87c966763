package layer

import (
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/macropower/lintcfg/pkg/rule"
)

// StringList is a list of strings that may also be written as a single
// string.
type StringList []string

// UnmarshalYAML implements the goccy/go-yaml InterfaceUnmarshaler.
func (l *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any

	err := unmarshal(&raw)
	if err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*l = nil
	case string:
		*l = StringList{v}
	case []any:
		list := make(StringList, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("item %d: expected a string, got %T", i, item)
			}

			list = append(list, s)
		}

		*l = list
	default:
		return fmt.Errorf("expected a string or a list of strings, got %T", raw)
	}

	return nil
}

// JSONSchema describes the string-or-list form.
func (StringList) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// Definition is the declarative form of a [Layer].
type Definition struct {
	// ParserOptions are passed to the parser.
	ParserOptions map[string]any `json:"parserOptions,omitempty" jsonschema:"title=Parser Options"`
	// Env enables predefined global environments.
	Env map[string]bool `json:"env,omitempty" jsonschema:"title=Environments"`
	// Settings are shared with every rule.
	Settings map[string]any `json:"settings,omitempty" jsonschema:"title=Settings"`
	// Rules maps rule keys to a severity, or to a list of a severity followed
	// by rule options.
	Rules map[string]rule.Spec `json:"rules,omitempty" jsonschema:"title=Rules"`
	// LinterOptions control the analysis tool itself.
	LinterOptions map[string]any `json:"linterOptions,omitempty" jsonschema:"title=Linter Options"`
	// Parser is the identifier of the parser to use.
	Parser string `json:"parser,omitempty" jsonschema:"title=Parser"`
	// Extends lists presets or configuration files to inherit from. Later
	// entries take precedence over earlier ones.
	Extends StringList `json:"extends,omitempty" jsonschema:"title=Extends"`
	// Plugins lists the plugin identifiers whose rules may be configured.
	Plugins []string `json:"plugins,omitempty" jsonschema:"title=Plugins"`
	// Files restricts a list-style entry to paths matching these patterns.
	Files []string `json:"files,omitempty" jsonschema:"title=Files"`
	// Ignores excludes paths from a list-style entry.
	Ignores []string `json:"ignores,omitempty" jsonschema:"title=Ignores"`
	// Overrides apply additional configuration to matching files.
	Overrides []OverrideDefinition `json:"overrides,omitempty" jsonschema:"title=Overrides"`
}

// OverrideDefinition is the declarative form of an [Override].
type OverrideDefinition struct {
	ParserOptions map[string]any       `json:"parserOptions,omitempty" jsonschema:"title=Parser Options"`
	Env           map[string]bool      `json:"env,omitempty"           jsonschema:"title=Environments"`
	Settings      map[string]any       `json:"settings,omitempty"      jsonschema:"title=Settings"`
	Rules         map[string]rule.Spec `json:"rules,omitempty"         jsonschema:"title=Rules"`
	LinterOptions map[string]any       `json:"linterOptions,omitempty" jsonschema:"title=Linter Options"`
	// When is an optional CEL expression that must also evaluate to true for
	// the override to apply. It has access to `file` and `dir`.
	When   string `json:"when,omitempty"   jsonschema:"title=When"`
	Parser string `json:"parser,omitempty" jsonschema:"title=Parser"`
	// Files are the glob patterns the override applies to. A leading "!"
	// excludes paths matched by earlier patterns.
	Files StringList `json:"files" jsonschema:"title=Files"`
	// ExcludedFiles are glob patterns removed from the match.
	ExcludedFiles StringList `json:"excludedFiles,omitempty" jsonschema:"title=Excluded Files"`
	Plugins       []string   `json:"plugins,omitempty"       jsonschema:"title=Plugins"`
	// Extends and Overrides are rejected; they exist so that the error can
	// name them.
	Extends   StringList           `json:"extends,omitempty"   jsonschema:"-"`
	Overrides []OverrideDefinition `json:"overrides,omitempty" jsonschema:"-"`
}

func (od OverrideDefinition) definition() Definition {
	return Definition{
		ParserOptions: od.ParserOptions,
		Env:           od.Env,
		Settings:      od.Settings,
		Rules:         od.Rules,
		LinterOptions: od.LinterOptions,
		Parser:        od.Parser,
		Plugins:       od.Plugins,
	}
}
