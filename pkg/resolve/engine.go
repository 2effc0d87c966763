package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/macropower/lintcfg/pkg/compose"
	"github.com/macropower/lintcfg/pkg/config"
	"github.com/macropower/lintcfg/pkg/effective"
	"github.com/macropower/lintcfg/pkg/extends"
	"github.com/macropower/lintcfg/pkg/glob"
	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/override"
	"github.com/macropower/lintcfg/pkg/plugin"
	"github.com/macropower/lintcfg/pkg/rule"
)

// DefaultConcurrency is the default number of files resolved at once by
// [Engine.ResolveFiles], and of sibling extends loaded at once.
const DefaultConcurrency = 8

// Option configures an [Engine].
type Option func(*Engine)

// WithRegistry sets the plugin registry. The default is
// [plugin.NewDefaultRegistry].
func WithRegistry(r *plugin.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLoader sets the loader used for extends references to files. The
// default is [config.NewFileLoader].
func WithLoader(l extends.Loader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithComposer sets the [compose.Composer].
func WithComposer(c *compose.Composer) Option {
	return func(e *Engine) {
		e.composer = c
	}
}

// WithGlobMatcher sets the [glob.Matcher] for override and stack patterns.
func WithGlobMatcher(m glob.Matcher) Option {
	return func(e *Engine) {
		e.globs = m
	}
}

// WithRootDir sets the directory that file paths are made relative to
// before matching. The default is the directory of the first stack item.
func WithRootDir(dir string) Option {
	return func(e *Engine) {
		e.rootDir = dir
	}
}

// WithStrictPlugins requires every declared plugin to exist in the registry
// and every plugin rule to be exported by its plugin.
func WithStrictPlugins(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithConcurrency sets the concurrency limit, see [DefaultConcurrency].
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// Engine resolves effective configurations. Resolved ancestors are cached
// per layer, so an Engine should be reused across files of the same
// configuration. It is safe for concurrent use.
type Engine struct {
	registry  *plugin.Registry
	loader    extends.Loader
	composer  *compose.Composer
	globs     glob.Matcher
	extends   *extends.Resolver
	matcher   *override.Matcher
	tracer    trace.Tracer
	ancestors sync.Map // *layer.Layer -> []*layer.Layer
	validated sync.Map // *layer.Layer -> struct{}
	rootDir   string
	strict    bool
	// concurrency limits both file and sibling extends loads.
	concurrency int
}

// NewEngine creates a new [Engine].
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		globs:       glob.DefaultMatcher,
		concurrency: DefaultConcurrency,
		tracer:      otel.Tracer("resolve-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = plugin.NewDefaultRegistry()
	}
	if e.loader == nil {
		e.loader = config.NewFileLoader()
	}
	if e.composer == nil {
		e.composer = compose.NewComposer()
	}

	e.extends = extends.NewResolver(e.registry, e.loader, extends.WithConcurrency(e.concurrency))
	e.matcher = override.NewMatcher(override.WithGlobMatcher(e.globs), override.WithDir(e.rootDir))

	return e
}

// Registry returns the engine's plugin registry.
func (e *Engine) Registry() *plugin.Registry {
	return e.registry
}

// ResolveForFile returns the effective configuration of filePath under root.
func (e *Engine) ResolveForFile(ctx context.Context, root *layer.Layer, filePath string) (*effective.Config, error) {
	return e.ResolveStackForFile(ctx, []*layer.Layer{root}, filePath)
}

// ResolveStackForFile returns the effective configuration of filePath under
// a list-style configuration, where later items take precedence.
func (e *Engine) ResolveStackForFile(ctx context.Context, stack []*layer.Layer, filePath string) (*effective.Config, error) {
	ctx, span := e.tracer.Start(ctx, "resolve-file", trace.WithAttributes(
		attribute.String("file", filePath),
		attribute.Int("stack", len(stack)),
	))
	defer span.End()

	ctx = log.With(ctx, slog.String("file", filePath))

	cfg, err := e.resolve(ctx, stack, filePath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve file")

		return nil, fmt.Errorf("resolve %s: %w", filePath, err)
	}

	return cfg, nil
}

func (e *Engine) resolve(ctx context.Context, stack []*layer.Layer, filePath string) (*effective.Config, error) {
	// Items and overrides that do not apply to the file are never matched,
	// so the whole stack is checked first and an invalid pattern fails every
	// file.
	err := e.Validate(ctx, stack)
	if err != nil {
		return nil, err
	}

	dir := e.dir(stack)
	rel := relPath(dir, filePath)

	layers, err := e.layersFor(ctx, stack, dir, rel)
	if err != nil {
		return nil, err
	}

	log.WithContext(ctx).DebugContext(ctx, "compose layers",
		slog.String("rel", rel),
		slog.Int("layers", len(layers)),
	)

	cfg, err := e.compose(ctx, layers)
	if err != nil {
		return nil, err
	}

	if e.strict {
		err := e.checkStrict(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// layersFor returns the layers that apply to the file, weakest first.
func (e *Engine) layersFor(ctx context.Context, stack []*layer.Layer, dir, rel string) ([]*layer.Layer, error) {
	var out []*layer.Layer

	for i, item := range stack {
		ok, err := e.applies(i, item, rel)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		ancestors, err := e.ancestorsOf(ctx, item)
		if err != nil {
			return nil, err
		}

		for _, l := range append(ancestors, item) {
			matched, err := e.matcher.MatchDir(ctx, l.Overrides(), dir, rel)
			if err != nil {
				return nil, err
			}

			out = append(out, l)
			out = append(out, matched...)
		}
	}

	return out, nil
}

// applies reports whether a stack item's files and ignores select the file.
func (e *Engine) applies(index int, item *layer.Layer, rel string) (bool, error) {
	if !item.Scoped() {
		return true, nil
	}

	if files := item.Files(); len(files) > 0 {
		ok, err := glob.NewPatternSet(e.globs, files...).Match(rel)
		if err != nil {
			return false, stackPatternError(index, item, err)
		}
		if !ok {
			return false, nil
		}
	}

	if ignores := item.Ignores(); len(ignores) > 0 {
		ignored, err := glob.NewPatternSet(e.globs, ignores...).Match(rel)
		if err != nil {
			return false, stackPatternError(index, item, err)
		}
		if ignored {
			return false, nil
		}
	}

	return true, nil
}

func (e *Engine) ancestorsOf(ctx context.Context, l *layer.Layer) ([]*layer.Layer, error) {
	if v, ok := e.ancestors.Load(l); ok {
		ancestors, _ := v.([]*layer.Layer)
		return slices.Clone(ancestors), nil
	}

	ancestors, err := e.extends.Resolve(ctx, l)
	if err != nil {
		return nil, err //nolint:wrapcheck // Errors name the layer.
	}

	v, _ := e.ancestors.LoadOrStore(l, ancestors)
	ancestors, _ = v.([]*layer.Layer)

	return slices.Clone(ancestors), nil
}

func (e *Engine) compose(ctx context.Context, layers []*layer.Layer) (*effective.Config, error) {
	_, span := e.tracer.Start(ctx, "compose", trace.WithAttributes(
		attribute.Int("layers", len(layers)),
	))
	defer span.End()

	cfg, err := e.composer.Compose(layers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose")

		return nil, err //nolint:wrapcheck // Errors name the layer.
	}

	return cfg, nil
}

func (e *Engine) checkStrict(ctx context.Context, cfg *effective.Config) error {
	var errs []error

	plugins := map[string]*plugin.Plugin{}

	for _, name := range cfg.Plugins() {
		p, err := e.registry.Plugin(ctx, name)
		if errors.Is(err, plugin.ErrNotFound) {
			errs = append(errs, &UnknownPluginError{Plugin: name, Err: err})
			continue
		}
		if err != nil {
			return err //nolint:wrapcheck // Errors name the plugin.
		}

		plugins[name] = p
	}

	core, err := e.registry.Plugin(ctx, plugin.CorePlugin)
	if err != nil && !errors.Is(err, plugin.ErrNotFound) {
		return err //nolint:wrapcheck // Errors name the plugin.
	}

	for _, key := range cfg.RuleKeys() {
		k := rule.Key(key)

		p := core
		if k.Plugin() != "" {
			p = plugins[plugin.NormalizePluginName(k.Plugin())]
		}
		if p == nil || p.HasRule(k.Name()) {
			continue
		}

		errs = append(errs, &UnknownRuleError{Rule: key, Plugin: p.Name()})
	}

	return errors.Join(errs...)
}

// ResolveFiles resolves many files concurrently. The result is keyed by the
// given paths. When more than one file fails, the error of the first path in
// the argument order is returned.
func (e *Engine) ResolveFiles(ctx context.Context, stack []*layer.Layer, paths []string) (map[string]*effective.Config, error) {
	// Warm the ancestor cache so that files share one extends walk per item.
	for _, item := range stack {
		_, err := e.ancestorsOf(ctx, item)
		if err != nil {
			return nil, err
		}
	}

	results := make([]*effective.Config, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	for i, p := range paths {
		g.Go(func() error {
			results[i], errs[i] = e.ResolveStackForFile(gctx, stack, p)
			return errs[i]
		})
	}

	err := g.Wait()
	if err != nil {
		for _, rerr := range errs {
			if rerr != nil && !errors.Is(rerr, context.Canceled) {
				return nil, rerr
			}
		}

		return nil, err //nolint:wrapcheck // Returned by a resolution.
	}

	out := make(map[string]*effective.Config, len(paths))
	for i, p := range paths {
		out[p] = results[i]
	}

	return out, nil
}

// Validate checks a configuration stack without resolving a file: every
// extends reference must resolve, and every pattern and condition must
// compile. Items that pass are remembered, so repeated calls are cheap.
func (e *Engine) Validate(ctx context.Context, stack []*layer.Layer) error {
	for i, item := range stack {
		err := e.validateItem(ctx, i, item)
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) validateItem(ctx context.Context, index int, item *layer.Layer) error {
	if _, ok := e.validated.Load(item); ok {
		return nil
	}

	for _, patterns := range [][]string{item.Files(), item.Ignores()} {
		err := glob.NewPatternSet(e.globs, patterns...).Validate()
		if err != nil {
			return stackPatternError(index, item, err)
		}
	}

	ancestors, err := e.ancestorsOf(ctx, item)
	if err != nil {
		return err
	}

	for _, l := range append(ancestors, item) {
		err := e.matcher.Validate(l)
		if err != nil {
			return err //nolint:wrapcheck // Errors name the layer.
		}
	}

	e.validated.Store(item, struct{}{})

	return nil
}

func (e *Engine) dir(stack []*layer.Layer) string {
	if e.rootDir != "" || len(stack) == 0 {
		return e.rootDir
	}

	return stack[0].Dir()
}

// relPath returns filePath relative to dir in forward-slash form. Relative
// paths are assumed to already be relative to dir.
func relPath(dir, filePath string) string {
	if dir != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(dir, filePath)
		if err == nil {
			filePath = rel
		}
	}

	return glob.Normalize(filePath)
}

func stackPatternError(index int, item *layer.Layer, err error) error {
	pattern := ""

	var perr *glob.PatternError
	if errors.As(err, &perr) {
		pattern = perr.Pattern
		err = perr.Err
	}

	return &override.InvalidGlobPatternError{
		Err:     err,
		Pattern: pattern,
		Layer:   item.ID(),
		Index:   index,
	}
}
