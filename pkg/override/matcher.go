package override

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/macropower/lintcfg/pkg/expr"
	"github.com/macropower/lintcfg/pkg/glob"
	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/log"
)

// Option configures a [Matcher].
type Option func(*Matcher)

// WithGlobMatcher sets the [glob.Matcher] used to test patterns.
func WithGlobMatcher(gm glob.Matcher) Option {
	return func(m *Matcher) {
		m.globs = gm
	}
}

// WithDir sets the value of the `dir` variable in conditions evaluated by
// [Matcher.Match].
func WithDir(dir string) Option {
	return func(m *Matcher) {
		m.dir = dir
	}
}

// Matcher selects matching overrides. It is safe for concurrent use.
// Compiled conditions are cached by expression.
type Matcher struct {
	globs      glob.Matcher
	env        func() (*expr.Environment, error)
	conditions sync.Map // map[string]*compiled
	dir        string
}

type compiled struct {
	cond *expr.Condition
	err  error
}

// NewMatcher creates a new [Matcher].
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		globs: glob.DefaultMatcher,
		env:   sync.OnceValues(expr.NewConditionEnvironment),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Match returns the layers of the entries that apply to filePath, in
// declaration order. filePath is matched in its normalized forward-slash
// form.
func (m *Matcher) Match(ctx context.Context, entries []layer.Override, filePath string) ([]*layer.Layer, error) {
	return m.MatchDir(ctx, entries, m.dir, filePath)
}

// MatchDir is like [Matcher.Match], with dir as the value of the `dir`
// variable in conditions.
func (m *Matcher) MatchDir(ctx context.Context, entries []layer.Override, dir, filePath string) ([]*layer.Layer, error) {
	filePath = glob.Normalize(filePath)

	var out []*layer.Layer

	for _, entry := range entries {
		ok, err := m.matches(ctx, entry, dir, filePath)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, entry.Layer())
		}
	}

	return out, nil
}

func (m *Matcher) matches(ctx context.Context, entry layer.Override, dir, filePath string) (bool, error) {
	set := glob.NewPatternSet(m.globs, entry.Patterns()...)

	ok, err := set.Match(filePath)
	if err != nil {
		return false, patternError(entry, err)
	}
	if !ok || entry.When() == "" {
		return ok, nil
	}

	cond, err := m.condition(entry)
	if err != nil {
		return false, err
	}

	ok, err = cond.Eval(map[string]any{
		"file": filePath,
		"dir":  dir,
	})
	if err != nil {
		// A condition that cannot be evaluated does not apply.
		log.WithContext(ctx).DebugContext(ctx, "override condition failed",
			slog.String("layer", entry.Owner()),
			slog.Int("index", entry.Index()),
			slog.String("file", filePath),
			slog.Any("err", err),
		)

		return false, nil
	}

	return ok, nil
}

func (m *Matcher) condition(entry layer.Override) (*expr.Condition, error) {
	expression := entry.When()

	v, ok := m.conditions.Load(expression)
	if !ok {
		c := &compiled{}

		env, err := m.env()
		if err != nil {
			c.err = err
		} else {
			c.cond, c.err = env.CompileCondition(expression)
		}

		v, _ = m.conditions.LoadOrStore(expression, c)
	}

	c, _ := v.(*compiled)
	if c.err != nil {
		return nil, fmt.Errorf("%s: overrides[%d]: %w: %w", entry.Owner(), entry.Index(), ErrInvalidCondition, c.err)
	}

	return c.cond, nil
}

// Validate checks the patterns and conditions of every override of l, so
// that configuration errors surface before any file is resolved.
func (m *Matcher) Validate(l *layer.Layer) error {
	for _, entry := range l.Overrides() {
		err := glob.NewPatternSet(m.globs, entry.Patterns()...).Validate()
		if err != nil {
			return patternError(entry, err)
		}

		if entry.When() != "" {
			_, err := m.condition(entry)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func patternError(entry layer.Override, err error) error {
	pattern := ""

	var perr *glob.PatternError
	if errors.As(err, &perr) {
		pattern = perr.Pattern
		err = perr.Err
	}

	return &InvalidGlobPatternError{
		Err:     err,
		Pattern: pattern,
		Layer:   entry.Owner(),
		Index:   entry.Index(),
	}
}
