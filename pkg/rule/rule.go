package rule

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/macropower/lintcfg/internal/values"
)

// ErrInvalidSeverity is returned when a severity value cannot be parsed.
var ErrInvalidSeverity = errors.New("invalid severity")

// Severity is the enabled/disabled/strictness level of a rule.
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

var severityNames = []string{"off", "warn", "error"}

// AllSeverities contains the names of all valid severities.
var AllSeverities = slices.Clone(severityNames)

func (s Severity) String() string {
	if s < SeverityOff || s > SeverityError {
		return fmt.Sprintf("Severity(%d)", int(s))
	}

	return severityNames[s]
}

// ParseSeverity converts a decoded severity value to a [Severity]. It accepts
// the names in [AllSeverities] (case-insensitive) and the integers 0, 1 and 2.
func ParseSeverity(v any) (Severity, error) {
	switch val := v.(type) {
	case Severity:
		if val < SeverityOff || val > SeverityError {
			return SeverityOff, fmt.Errorf("%w: %d", ErrInvalidSeverity, int(val))
		}

		return val, nil

	case string:
		idx := slices.Index(severityNames, strings.ToLower(strings.TrimSpace(val)))
		if idx < 0 {
			return SeverityOff, fmt.Errorf("%w: %q", ErrInvalidSeverity, val)
		}

		return Severity(idx), nil

	case float64:
		if val != math.Trunc(val) {
			return SeverityOff, fmt.Errorf("%w: %v", ErrInvalidSeverity, val)
		}

		return ParseSeverity(int64(val))

	case float32:
		return ParseSeverity(float64(val))

	case int:
		return ParseSeverity(int64(val))

	case int32:
		return ParseSeverity(int64(val))

	case uint64:
		if val > uint64(SeverityError) {
			return SeverityOff, fmt.Errorf("%w: %d", ErrInvalidSeverity, val)
		}

		return Severity(val), nil //nolint:gosec // G115: bounds checked above.

	case uint:
		return ParseSeverity(uint64(val))

	case int64:
		if val < int64(SeverityOff) || val > int64(SeverityError) {
			return SeverityOff, fmt.Errorf("%w: %d", ErrInvalidSeverity, val)
		}

		return Severity(val), nil
	}

	return SeverityOff, fmt.Errorf("%w: unsupported type %T", ErrInvalidSeverity, v)
}

// MarshalText encodes the severity as its name.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityOff || s > SeverityError {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeverity, int(s))
	}

	return []byte(s.String()), nil
}

// Spec is the configuration of a single rule: a severity and an ordered list
// of options. A Spec is never mutated after it is created.
type Spec struct {
	options  []any
	severity Severity
}

// New creates a new [Spec].
func New(severity Severity, options ...any) Spec {
	return Spec{
		severity: severity,
		options:  values.CloneSlice(options),
	}
}

// Parse converts a decoded rule value into a [Spec]. The value is either a
// bare severity, or a list whose first element is the severity.
func Parse(v any) (Spec, error) {
	list, ok := v.([]any)
	if !ok {
		sev, err := ParseSeverity(v)
		if err != nil {
			return Spec{}, err
		}

		return Spec{severity: sev}, nil
	}

	if len(list) == 0 {
		return Spec{}, fmt.Errorf("%w: empty rule configuration", ErrInvalidSeverity)
	}

	sev, err := ParseSeverity(list[0])
	if err != nil {
		return Spec{}, err
	}

	return New(sev, list[1:]...), nil
}

// MustParse calls [Parse] and panics on error.
func MustParse(v any) Spec {
	s, err := Parse(v)
	if err != nil {
		panic(err)
	}

	return s
}

// Severity returns the rule's severity.
func (s Spec) Severity() Severity {
	return s.severity
}

// Options returns a copy of the rule's options.
func (s Spec) Options() []any {
	return values.CloneSlice(s.options)
}

// HasOptions reports whether the rule carries any options.
func (s Spec) HasOptions() bool {
	return len(s.options) > 0
}

// Enabled reports whether the severity is not [SeverityOff].
func (s Spec) Enabled() bool {
	return s.severity != SeverityOff
}

// Value returns the rule in its declarative form: the severity name when
// there are no options, otherwise a list of the severity followed by the
// options.
func (s Spec) Value() any {
	if len(s.options) == 0 {
		return s.severity.String()
	}

	out := make([]any, 0, len(s.options)+1)
	out = append(out, s.severity.String())

	return append(out, values.CloneSlice(s.options)...)
}

// UnmarshalYAML implements the goccy/go-yaml InterfaceUnmarshaler.
func (s *Spec) UnmarshalYAML(unmarshal func(any) error) error {
	var v any

	err := unmarshal(&v)
	if err != nil {
		return err
	}

	parsed, err := Parse(v)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// JSONSchema describes the bare-severity and list forms of a rule.
func (Spec) JSONSchema() *jsonschema.Schema {
	severity := &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string", Enum: []any{"off", "warn", "error"}},
			{Type: "integer", Enum: []any{0, 1, 2}},
		},
	}

	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			severity,
			{
				Type:        "array",
				PrefixItems: []*jsonschema.Schema{severity},
			},
		},
	}
}

// MarshalYAML encodes the rule in its declarative form.
func (s Spec) MarshalYAML() (any, error) {
	return s.Value(), nil
}

// MarshalJSON encodes the rule in its declarative form.
func (s Spec) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(s.Value())
	if err != nil {
		return nil, fmt.Errorf("marshal rule: %w", err)
	}

	return b, nil
}

// Equal reports whether two specs have the same severity and options.
func (s Spec) Equal(o Spec) bool {
	if s.severity != o.severity || len(s.options) != len(o.options) {
		return false
	}

	a, errA := json.Marshal(s.options)
	b, errB := json.Marshal(o.options)

	return errA == nil && errB == nil && string(a) == string(b)
}

// Key is a namespaced rule identifier such as "no-undef" or
// "@typescript-eslint/no-unused-vars".
type Key string

// ParseKey splits a rule key into its plugin namespace and rule name. The
// plugin is everything before the last "/". Core rules have no plugin.
func ParseKey(key string) (string, string) {
	idx := strings.LastIndex(key, "/")
	if idx <= 0 {
		return "", key
	}

	return key[:idx], key[idx+1:]
}

// Plugin returns the plugin namespace of the key, or "" for core rules.
func (k Key) Plugin() string {
	p, _ := ParseKey(string(k))
	return p
}

// Name returns the rule name without its plugin namespace.
func (k Key) Name() string {
	_, n := ParseKey(string(k))
	return n
}
