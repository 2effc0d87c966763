package layer

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/macropower/lintcfg/internal/values"
	"github.com/macropower/lintcfg/pkg/glob"
	"github.com/macropower/lintcfg/pkg/rule"
)

var (
	// ErrInvalidLayer is returned when a [Definition] cannot be turned into
	// a [Layer].
	ErrInvalidLayer = errors.New("invalid layer")

	// ErrNestedOverrides is returned when an override declares its own
	// overrides or extends.
	ErrNestedOverrides = errors.New("overrides cannot be nested")
)

// Layer is an immutable configuration layer.
type Layer struct {
	parserOptions map[string]any
	env           map[string]bool
	settings      map[string]any
	rules         map[string]rule.Spec
	linterOptions map[string]any
	id            string
	dir           string
	parser        string
	extends       []string
	plugins       []string
	files         []string
	ignores       []string
	overrides     []Override
}

// New creates a [Layer] from a [Definition]. The id identifies the layer
// during resolution, and dir is the directory used to resolve relative
// extends paths.
func New(id, dir string, def Definition) (*Layer, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidLayer)
	}

	l := &Layer{
		id:            id,
		dir:           dir,
		parser:        strings.TrimSpace(def.Parser),
		parserOptions: values.CloneMap(def.ParserOptions),
		settings:      values.CloneMap(def.Settings),
		linterOptions: values.CloneMap(def.LinterOptions),
		env:           maps.Clone(def.Env),
		rules:         maps.Clone(def.Rules),
		files:         slices.Clone(def.Files),
		ignores:       slices.Clone(def.Ignores),
	}

	for key := range l.rules {
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: %s: empty rule key", ErrInvalidLayer, id)
		}
	}

	for _, ref := range def.Extends {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return nil, fmt.Errorf("%w: %s: empty extends reference", ErrInvalidLayer, id)
		}

		l.extends = append(l.extends, ref)
	}

	for _, p := range def.Plugins {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: %s: empty plugin name", ErrInvalidLayer, id)
		}
		if !slices.Contains(l.plugins, p) {
			l.plugins = append(l.plugins, p)
		}
	}

	for i, od := range def.Overrides {
		o, err := newOverride(l, i, od)
		if err != nil {
			return nil, err
		}

		l.overrides = append(l.overrides, o)
	}

	return l, nil
}

// MustNew calls [New] and panics on error.
func MustNew(id, dir string, def Definition) *Layer {
	l, err := New(id, dir, def)
	if err != nil {
		panic(err)
	}

	return l
}

// ID returns the layer's identity.
func (l *Layer) ID() string { return l.id }

// Dir returns the directory that relative extends paths are resolved from.
func (l *Layer) Dir() string { return l.dir }

// Parser returns the parser identifier, or "" when unset.
func (l *Layer) Parser() string { return l.parser }

// Extends returns a copy of the extends references in declaration order.
func (l *Layer) Extends() []string { return slices.Clone(l.extends) }

// Plugins returns a copy of the declared plugin identifiers.
func (l *Layer) Plugins() []string { return slices.Clone(l.plugins) }

// Files returns a copy of the list-style file patterns.
func (l *Layer) Files() []string { return slices.Clone(l.files) }

// Ignores returns a copy of the list-style ignore patterns.
func (l *Layer) Ignores() []string { return slices.Clone(l.ignores) }

// Scoped reports whether the layer only applies to some files.
func (l *Layer) Scoped() bool { return len(l.files) > 0 || len(l.ignores) > 0 }

// Overrides returns a copy of the layer's overrides in declaration order.
func (l *Layer) Overrides() []Override { return slices.Clone(l.overrides) }

// Rules returns a copy of the layer's rules.
func (l *Layer) Rules() map[string]rule.Spec { return maps.Clone(l.rules) }

// Rule returns the rule configured for key, if any.
func (l *Layer) Rule(key string) (rule.Spec, bool) {
	s, ok := l.rules[key]
	return s, ok
}

// Settings returns a deep copy of the layer's settings.
func (l *Layer) Settings() map[string]any { return values.CloneMap(l.settings) }

// ParserOptions returns a deep copy of the layer's parser options.
func (l *Layer) ParserOptions() map[string]any { return values.CloneMap(l.parserOptions) }

// LinterOptions returns a deep copy of the layer's linter options.
func (l *Layer) LinterOptions() map[string]any { return values.CloneMap(l.linterOptions) }

// Env returns a copy of the layer's environment flags.
func (l *Layer) Env() map[string]bool { return maps.Clone(l.env) }

// Definition returns the declarative form of the layer.
func (l *Layer) Definition() Definition {
	def := Definition{
		Extends:       l.Extends(),
		Plugins:       l.Plugins(),
		Parser:        l.parser,
		ParserOptions: l.ParserOptions(),
		Env:           l.Env(),
		Settings:      l.Settings(),
		Rules:         l.Rules(),
		LinterOptions: l.LinterOptions(),
		Files:         l.Files(),
		Ignores:       l.Ignores(),
	}

	for _, o := range l.overrides {
		inner := o.layer
		def.Overrides = append(def.Overrides, OverrideDefinition{
			Files:         StringList(slices.Clone(o.files)),
			ExcludedFiles: StringList(slices.Clone(o.excludedFiles)),
			When:          o.when,
			Parser:        inner.parser,
			ParserOptions: inner.ParserOptions(),
			Env:           inner.Env(),
			Settings:      inner.Settings(),
			Rules:         inner.Rules(),
			LinterOptions: inner.LinterOptions(),
			Plugins:       inner.Plugins(),
		})
	}

	return def
}

func (l *Layer) String() string { return l.id }

// Override is a layer that only applies to files matching its patterns.
type Override struct {
	layer         *Layer
	owner         string
	when          string
	files         []string
	excludedFiles []string
	index         int
}

func newOverride(parent *Layer, index int, od OverrideDefinition) (Override, error) {
	if len(od.Overrides) > 0 || len(od.Extends) > 0 {
		return Override{}, fmt.Errorf("%w: %s: overrides[%d]: %w",
			ErrInvalidLayer, parent.id, index, ErrNestedOverrides)
	}
	if len(od.Files) == 0 {
		return Override{}, fmt.Errorf("%w: %s: overrides[%d]: no file patterns",
			ErrInvalidLayer, parent.id, index)
	}

	inner, err := New(fmt.Sprintf("%s#overrides[%d]", parent.id, index), parent.dir, od.definition())
	if err != nil {
		return Override{}, err
	}

	return Override{
		layer:         inner,
		owner:         parent.id,
		when:          strings.TrimSpace(od.When),
		files:         slices.Clone(od.Files),
		excludedFiles: slices.Clone(od.ExcludedFiles),
		index:         index,
	}, nil
}

// Layer returns the override's configuration layer.
func (o Override) Layer() *Layer { return o.layer }

// Owner returns the id of the layer that declares the override.
func (o Override) Owner() string { return o.owner }

// Index returns the override's position in its parent layer.
func (o Override) Index() int { return o.index }

// When returns the override's CEL condition, or "" when unset.
func (o Override) When() string { return o.when }

// Patterns returns the override's ordered pattern set: the file patterns
// followed by the excluded files as negations.
func (o Override) Patterns() []string {
	out := slices.Clone(o.files)
	for _, p := range o.excludedFiles {
		if _, negated := glob.Split(p); negated {
			out = append(out, p)
			continue
		}

		out = append(out, glob.Negation+p)
	}

	return out
}
