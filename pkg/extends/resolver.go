package extends

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/plugin"
)

// Presets resolves preset references to layers. Unknown names must return an
// error wrapping [plugin.ErrNotFound].
type Presets interface {
	Resolve(ctx context.Context, ref string) (*layer.Layer, error)
}

// Loader loads the configuration file at an absolute path into a layer whose
// id is that path.
type Loader interface {
	LoadLayer(ctx context.Context, path string) (*layer.Layer, error)
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithConcurrency limits the number of sibling references loaded at once.
// Zero or less means no limit.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		r.concurrency = n
	}
}

// Resolver computes the ancestors of layers.
type Resolver struct {
	presets     Presets
	loader      Loader
	tracer      trace.Tracer
	concurrency int
}

// NewResolver creates a new [Resolver].
func NewResolver(presets Presets, loader Loader, opts ...Option) *Resolver {
	r := &Resolver{
		presets: presets,
		loader:  loader,
		tracer:  otel.Tracer("extends-resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// IsPath reports whether an extends reference names a file rather than a
// preset.
func IsPath(ref string) bool {
	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") ||
		strings.HasPrefix(ref, "/") || filepath.IsAbs(ref) {
		return true
	}

	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml", ".json":
		return true
	}

	return false
}

// Resolve returns the ancestors of root, least specific first. The root
// itself is not included. A layer reached through more than one path appears
// once, at its first position. No partial result is returned on error.
func (r *Resolver) Resolve(ctx context.Context, root *layer.Layer) ([]*layer.Layer, error) {
	ctx, span := r.tracer.Start(ctx, "resolve-extends", trace.WithAttributes(
		attribute.String("layer", root.ID()),
	))
	defer span.End()

	w := &walk{
		r:      r,
		marks:  map[string]mark{},
		layers: map[string]*layer.Layer{root.ID(): root},
	}

	err := w.visit(ctx, root)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve extends")

		return nil, err
	}

	ancestors := w.out[:len(w.out)-1]

	log.WithContext(ctx).DebugContext(ctx, "resolved extends",
		slog.String("layer", root.ID()),
		slog.Int("ancestors", len(ancestors)),
	)

	return slices.Clip(ancestors), nil
}

type mark int

const (
	unvisited mark = iota
	visiting
	visited
)

// walk is the state of a single resolution. Layers are interned by id.
type walk struct {
	r      *Resolver
	marks  map[string]mark
	layers map[string]*layer.Layer
	stack  []string
	out    []*layer.Layer
}

func (w *walk) visit(ctx context.Context, l *layer.Layer) error {
	id := l.ID()

	switch w.marks[id] {
	case visited:
		return nil
	case visiting:
		start := slices.Index(w.stack, id)
		path := append(slices.Clone(w.stack[start:]), id)

		return &CyclicExtendsError{Path: path}
	case unvisited:
	}

	w.marks[id] = visiting
	w.stack = append(w.stack, id)

	parents, err := w.loadAll(ctx, l)
	if err != nil {
		return err
	}

	for _, p := range parents {
		err := w.visit(ctx, p)
		if err != nil {
			return err
		}
	}

	w.stack = w.stack[:len(w.stack)-1]
	w.marks[id] = visited
	w.out = append(w.out, l)

	return nil
}

// loadAll resolves the extends references of l concurrently, returning the
// results in declaration order.
func (w *walk) loadAll(ctx context.Context, l *layer.Layer) ([]*layer.Layer, error) {
	refs := l.Extends()
	if len(refs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(refs))
	for i, ref := range refs {
		key, err := w.r.key(l, ref)
		if err != nil {
			return nil, err
		}

		keys[i] = key
	}

	results := make([]*layer.Layer, len(refs))
	errs := make([]error, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	if w.r.concurrency > 0 {
		g.SetLimit(w.r.concurrency)
	}

	for i, ref := range refs {
		if cached, ok := w.layers[keys[i]]; ok {
			results[i] = cached
			continue
		}

		g.Go(func() error {
			results[i], errs[i] = w.r.load(gctx, l, ref, keys[i])
			return errs[i]
		})
	}

	err := g.Wait()
	if err != nil {
		// Report the first failure in declaration order, not completion order.
		for _, e := range errs {
			if e != nil && !errors.Is(e, context.Canceled) {
				return nil, e
			}
		}

		return nil, err //nolint:wrapcheck // Returned by a load.
	}

	for i, key := range keys {
		if cached, ok := w.layers[key]; ok {
			// Another sibling loaded the same key first.
			results[i] = cached
			continue
		}

		w.layers[key] = results[i]
	}

	return results, nil
}

// key returns the interned identity of a reference: the absolute path for
// files, or the canonical preset id.
func (r *Resolver) key(l *layer.Layer, ref string) (string, error) {
	if IsPath(ref) {
		return r.path(l, ref)
	}

	parsed, err := plugin.ParseRef(ref)
	if err != nil {
		return "", &UnknownExtendsReferenceError{Reference: ref, Layer: l.ID(), Err: err}
	}

	return parsed.ID(), nil
}

func (r *Resolver) path(l *layer.Layer, ref string) (string, error) {
	p := filepath.FromSlash(ref)
	if !filepath.IsAbs(p) {
		p = filepath.Join(l.Dir(), p)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%s: resolve extends path %q: %w", l.ID(), ref, err)
	}

	return abs, nil
}

func (r *Resolver) load(ctx context.Context, l *layer.Layer, ref, key string) (*layer.Layer, error) {
	if IsPath(ref) {
		if r.loader == nil {
			return nil, &UnknownExtendsReferenceError{
				Reference: ref, Layer: l.ID(), Err: errors.New("no file loader configured"),
			}
		}

		loaded, err := r.loader.LoadLayer(ctx, key)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &UnknownExtendsReferenceError{Reference: ref, Layer: l.ID(), Err: err}
		}
		if err != nil {
			return nil, fmt.Errorf("%s: extends %q: %w", l.ID(), ref, err)
		}

		return loaded, nil
	}

	if r.presets == nil {
		return nil, &UnknownExtendsReferenceError{Reference: ref, Layer: l.ID(), Err: plugin.ErrNotFound}
	}

	loaded, err := r.presets.Resolve(ctx, ref)
	if errors.Is(err, plugin.ErrNotFound) || errors.Is(err, plugin.ErrInvalidReference) {
		return nil, &UnknownExtendsReferenceError{Reference: ref, Layer: l.ID(), Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: extends %q: %w", l.ID(), ref, err)
	}

	return loaded, nil
}
