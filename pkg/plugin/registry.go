package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/macropower/lintcfg/pkg/layer"
)

// Registry resolves plugins and presets through an ordered list of sources.
// Results are memoized by canonical identity. Concurrent lookups of the same
// name may query the sources more than once, but every caller receives the
// first stored result.
type Registry struct {
	sources []Source
	plugins sync.Map // Normalized plugin name -> *Plugin.
	presets sync.Map // Canonical preset id -> *layer.Layer.
}

// NewRegistry creates a [Registry] that consults sources in order.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// NewDefaultRegistry creates a [Registry] with the builtin core manifests
// followed by a directory source for each of dirs.
func NewDefaultRegistry(dirs ...string) *Registry {
	sources := []Source{NewBuiltinSource()}
	for _, dir := range dirs {
		sources = append(sources, NewDirSource(dir))
	}

	return NewRegistry(sources...)
}

// Register adds a plugin to the registry, replacing any memoized plugin with
// the same name.
func (r *Registry) Register(p *Plugin) {
	r.plugins.Store(p.Name(), p)

	for _, name := range p.ConfigNames() {
		l, _ := p.Config(name)

		ref := Ref{Kind: RefPlugin, Plugin: p.Name(), Name: name}
		if p.Name() == CorePlugin {
			ref.Kind = RefCore
		}

		r.presets.Store(ref.ID(), l)
	}
}

// RegisterConfig adds a shareable config to the registry under the normalized
// form of name.
func (r *Registry) RegisterConfig(name string, l *layer.Layer) {
	r.presets.Store(NormalizeConfigName(name), l)
}

// Plugin returns the named plugin.
func (r *Registry) Plugin(ctx context.Context, name string) (*Plugin, error) {
	name = NormalizePluginName(name)

	if v, ok := r.plugins.Load(name); ok {
		p, _ := v.(*Plugin)
		return p, nil
	}

	for _, src := range r.sources {
		p, err := src.Plugin(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("plugin %q: %w", name, err)
		}

		v, _ := r.plugins.LoadOrStore(name, p)
		p, _ = v.(*Plugin)

		return p, nil
	}

	return nil, fmt.Errorf("plugin %q: %w", name, ErrNotFound)
}

// Resolve returns the preset named by ref. Missing presets return an error
// wrapping [ErrNotFound]; an empty layer is never substituted.
func (r *Registry) Resolve(ctx context.Context, ref string) (*layer.Layer, error) {
	parsed, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	id := parsed.ID()

	if v, ok := r.presets.Load(id); ok {
		l, _ := v.(*layer.Layer)
		return l, nil
	}

	l, err := r.load(ctx, parsed)
	if err != nil {
		return nil, err
	}

	v, _ := r.presets.LoadOrStore(id, l)
	l, _ = v.(*layer.Layer)

	return l, nil
}

func (r *Registry) load(ctx context.Context, ref Ref) (*layer.Layer, error) {
	if ref.Kind == RefShared {
		for _, src := range r.sources {
			l, err := src.SharedConfig(ctx, ref.Name)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("preset %q: %w", ref.ID(), err)
			}

			return l, nil
		}

		return nil, fmt.Errorf("preset %q: %w", ref.ID(), ErrNotFound)
	}

	p, err := r.Plugin(ctx, ref.Plugin)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", ref.ID(), err)
	}

	l, ok := p.Config(ref.Name)
	if !ok {
		return nil, fmt.Errorf("preset %q: %w", ref.ID(), ErrNotFound)
	}

	return l, nil
}
