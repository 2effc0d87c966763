package compose

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/macropower/lintcfg/internal/values"
	"github.com/macropower/lintcfg/pkg/effective"
	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/plugin"
	"github.com/macropower/lintcfg/pkg/rule"
)

// DefaultAdditiveSuffixes are the key suffixes of settings that accumulate
// across layers instead of being replaced.
var DefaultAdditiveSuffixes = []string{"ignore", "ignores", "ignoreWarnings", "ignorePatterns"}

// Option configures a [Composer].
type Option func(*Composer)

// WithAdditiveSuffixes replaces [DefaultAdditiveSuffixes].
func WithAdditiveSuffixes(suffixes ...string) Option {
	return func(c *Composer) {
		c.suffixes = lower(suffixes)
	}
}

// Composer merges layers. It holds no state between calls and is safe for
// concurrent use.
type Composer struct {
	suffixes []string
}

// NewComposer creates a new [Composer].
func NewComposer(opts ...Option) *Composer {
	c := &Composer{suffixes: lower(DefaultAdditiveSuffixes)}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compose folds layers, weakest first, into an [effective.Config]. The
// layers are not modified.
func (c *Composer) Compose(layers []*layer.Layer) (*effective.Config, error) {
	f := &fold{
		c: c,
		data: effective.Data{
			Rules:         map[string]rule.Spec{},
			Settings:      map[string]any{},
			ParserOptions: map[string]any{},
			LinterOptions: map[string]any{},
			Env:           map[string]bool{},
			Plugins:       []string{},
		},
		origins: map[string]string{},
		plugins: map[string]bool{},
	}

	for _, l := range layers {
		f.add(l)
	}

	err := f.checkPlugins()
	if err != nil {
		return nil, err
	}

	return effective.New(f.data), nil
}

type fold struct {
	c    *Composer
	data effective.Data
	// origins maps rule keys to the id of the layer that set them.
	origins map[string]string
	plugins map[string]bool
}

func (f *fold) add(l *layer.Layer) {
	for key, spec := range l.Rules() {
		f.data.Rules[key] = spec
		f.origins[key] = l.ID()
	}

	f.c.merge(f.data.Settings, l.Settings())
	f.c.merge(f.data.ParserOptions, l.ParserOptions())

	for k, v := range l.LinterOptions() {
		f.data.LinterOptions[k] = v
	}

	if p := l.Parser(); p != "" {
		f.data.Parser = p
	}

	for flag, enabled := range l.Env() {
		f.data.Env[flag] = f.data.Env[flag] || enabled
	}

	for _, p := range l.Plugins() {
		name := plugin.NormalizePluginName(p)
		if !f.plugins[name] {
			f.plugins[name] = true
			f.data.Plugins = append(f.data.Plugins, name)
		}
	}
}

func (f *fold) checkPlugins() error {
	var errs []error

	for _, key := range slices.Sorted(maps.Keys(f.data.Rules)) {
		p := rule.Key(key).Plugin()
		if p == "" || f.plugins[plugin.NormalizePluginName(p)] {
			continue
		}

		errs = append(errs, &UndeclaredPluginRuleError{
			Rule:   key,
			Plugin: p,
			Layer:  f.origins[key],
		})
	}

	return errors.Join(errs...)
}

// merge applies src over dst. dst is owned by the fold; src is a copy.
func (c *Composer) merge(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = c.mergeValue(k, dst[k], v)
	}
}

func (c *Composer) mergeValue(key string, prev, next any) any {
	if c.additive(key, next) {
		return concat(prev, next)
	}

	nextMap, ok := next.(map[string]any)
	if !ok {
		return next
	}

	prevMap, ok := prev.(map[string]any)
	if !ok {
		return nextMap
	}

	// The later map replaces the earlier one. Additive lists defined by both
	// maps are concatenated.
	out := make(map[string]any, len(nextMap))
	for k, v := range nextMap {
		if _, ok := prevMap[k]; ok && c.additive(k, v) {
			out[k] = concat(prevMap[k], v)
			continue
		}

		out[k] = v
	}

	return out
}

// additive reports whether a key holds an accumulating list.
func (c *Composer) additive(key string, v any) bool {
	if _, ok := v.([]any); !ok {
		return false
	}

	key = strings.ToLower(key)
	for _, s := range c.suffixes {
		if strings.HasSuffix(key, s) {
			return true
		}
	}

	return false
}

func concat(prev, next any) []any {
	out := []any{}

	switch p := prev.(type) {
	case nil:
	case []any:
		out = append(out, values.CloneSlice(p)...)
	default:
		out = append(out, p)
	}

	n, _ := next.([]any)

	return append(out, values.CloneSlice(n)...)
}

func lower(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, strings.ToLower(s))
	}

	return out
}
