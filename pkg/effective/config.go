package effective

import (
	"maps"
	"slices"

	"github.com/macropower/lintcfg/internal/values"
	"github.com/macropower/lintcfg/pkg/rule"
	"github.com/macropower/lintcfg/pkg/yaml"
)

// Data holds the fields of a [Config].
type Data struct {
	Rules         map[string]rule.Spec
	Settings      map[string]any
	ParserOptions map[string]any
	LinterOptions map[string]any
	Env           map[string]bool
	Parser        string
	Plugins       []string
}

// Config is the effective configuration of one file.
type Config struct {
	data Data
}

// New creates a [Config] from d. The caller must not modify d afterwards.
func New(d Data) *Config {
	return &Config{data: d}
}

// SeverityOf returns the severity of the rule, or [rule.SeverityOff] when
// the rule is not configured.
func (c *Config) SeverityOf(key string) rule.Severity {
	spec, ok := c.data.Rules[key]
	if !ok {
		return rule.SeverityOff
	}

	return spec.Severity()
}

// OptionsOf returns a copy of the rule's options. It is empty when the rule
// is not configured or has no options.
func (c *Config) OptionsOf(key string) []any {
	spec, ok := c.data.Rules[key]
	if !ok {
		return []any{}
	}

	opts := spec.Options()
	if opts == nil {
		return []any{}
	}

	return opts
}

// IsRuleEnabled reports whether the rule is configured with a severity other
// than off.
func (c *Config) IsRuleEnabled(key string) bool {
	return c.SeverityOf(key) != rule.SeverityOff
}

// Rule returns the rule's spec.
func (c *Config) Rule(key string) (rule.Spec, bool) {
	spec, ok := c.data.Rules[key]
	return spec, ok
}

// Rules returns a copy of all configured rules.
func (c *Config) Rules() map[string]rule.Spec {
	return maps.Clone(c.data.Rules)
}

// RuleKeys returns the configured rule keys in sorted order.
func (c *Config) RuleKeys() []string {
	return slices.Sorted(maps.Keys(c.data.Rules))
}

// SettingValue looks up a setting by its dot-separated path, e.g.
// "react.version". The returned value is a copy.
func (c *Config) SettingValue(path string) (any, bool) {
	return c.SettingValueAt(values.SplitPath(path)...)
}

// SettingValueAt looks up a setting by its key segments, for keys that
// contain dots.
func (c *Config) SettingValueAt(segments ...string) (any, bool) {
	v, ok := values.Lookup(c.data.Settings, segments...)
	if !ok {
		return nil, false
	}

	return values.Clone(v), true
}

// IsEnvEnabled reports whether any layer enabled the environment.
func (c *Config) IsEnvEnabled(flag string) bool {
	return c.data.Env[flag]
}

// Parser returns the selected parser, or "" when none was set.
func (c *Config) Parser() string {
	return c.data.Parser
}

// ParserOptions returns a copy of the parser options.
func (c *Config) ParserOptions() map[string]any {
	return values.CloneMap(c.data.ParserOptions)
}

// Settings returns a copy of the shared settings.
func (c *Config) Settings() map[string]any {
	return values.CloneMap(c.data.Settings)
}

// LinterOptions returns a copy of the linter options.
func (c *Config) LinterOptions() map[string]any {
	return values.CloneMap(c.data.LinterOptions)
}

// Env returns a copy of the environment flags.
func (c *Config) Env() map[string]bool {
	return maps.Clone(c.data.Env)
}

// Plugins returns the available plugins in the order they were first
// declared.
func (c *Config) Plugins() []string {
	return slices.Clone(c.data.Plugins)
}

type document struct {
	Env           map[string]bool      `json:"env,omitempty"`
	Parser        string               `json:"parser,omitempty"`
	ParserOptions map[string]any       `json:"parserOptions,omitempty"`
	Plugins       []string             `json:"plugins,omitempty"`
	Rules         map[string]rule.Spec `json:"rules,omitempty"`
	Settings      map[string]any       `json:"settings,omitempty"`
	LinterOptions map[string]any       `json:"linterOptions,omitempty"`
}

// MarshalYAML encodes the configuration in the same form as a config file.
func (c *Config) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(document{
		Env:           c.data.Env,
		Parser:        c.data.Parser,
		ParserOptions: c.data.ParserOptions,
		Plugins:       c.data.Plugins,
		Rules:         c.data.Rules,
		Settings:      c.data.Settings,
		LinterOptions: c.data.LinterOptions,
	})
}
