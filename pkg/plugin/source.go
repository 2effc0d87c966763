package plugin

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/api/v1beta1/plugins"
	"github.com/macropower/lintcfg/pkg/config"
	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/yaml"
)

// ErrDuplicate is returned when a source defines the same plugin or shareable
// config more than once.
var ErrDuplicate = errors.New("duplicate definition")

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Source looks up plugins and shareable configs. Both methods return an error
// wrapping [ErrNotFound] when the source does not know the name.
type Source interface {
	Plugin(ctx context.Context, name string) (*Plugin, error)
	SharedConfig(ctx context.Context, name string) (*layer.Layer, error)
}

// FSSource is a [Source] backed by a directory of YAML manifests. The
// directory is indexed on the first lookup.
type FSSource struct {
	fsys    fs.FS
	plugins map[string]*Plugin
	shared  map[string]*layer.Layer
	err     error
	root    string
	once    sync.Once
}

// NewFSSource creates an [FSSource] reading manifests from the top level of
// fsys. Relative extends paths in shareable configs are resolved from root.
func NewFSSource(fsys fs.FS, root string) *FSSource {
	return &FSSource{fsys: fsys, root: root}
}

// NewDirSource creates an [FSSource] for a directory on disk.
func NewDirSource(dir string) *FSSource {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	return NewFSSource(os.DirFS(abs), abs)
}

// NewBuiltinSource creates an [FSSource] for the embedded core manifests.
func NewBuiltinSource() *FSSource {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}

	return NewFSSource(sub, "")
}

// Plugin implements [Source].
func (s *FSSource) Plugin(ctx context.Context, name string) (*Plugin, error) {
	err := s.index(ctx)
	if err != nil {
		return nil, err
	}

	p, ok := s.plugins[NormalizePluginName(name)]
	if !ok {
		return nil, fmt.Errorf("plugin %q: %w", name, ErrNotFound)
	}

	return p, nil
}

// SharedConfig implements [Source].
func (s *FSSource) SharedConfig(ctx context.Context, name string) (*layer.Layer, error) {
	err := s.index(ctx)
	if err != nil {
		return nil, err
	}

	l, ok := s.shared[NormalizeConfigName(name)]
	if !ok {
		return nil, fmt.Errorf("shared config %q: %w", name, ErrNotFound)
	}

	return l, nil
}

func (s *FSSource) index(ctx context.Context) error {
	s.once.Do(func() {
		s.err = s.load(ctx)
	})

	return s.err
}

func (s *FSSource) load(ctx context.Context) error {
	s.plugins = map[string]*Plugin{}
	s.shared = map[string]*layer.Layer{}

	entries, err := fs.ReadDir(s.fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		log.WithContext(ctx).DebugContext(ctx, "plugin directory does not exist",
			slog.String("root", s.root),
		)

		return nil
	}
	if err != nil {
		return fmt.Errorf("read plugin directory %s: %w", s.root, err)
	}

	for _, entry := range entries {
		ext := path.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		err := s.loadManifest(ctx, entry.Name())
		if err != nil {
			return err
		}
	}

	log.WithContext(ctx).DebugContext(ctx, "indexed plugin source",
		slog.String("root", s.root),
		slog.Int("plugins", len(s.plugins)),
		slog.Int("shared_configs", len(s.shared)),
	)

	return nil
}

func (s *FSSource) loadManifest(ctx context.Context, name string) error {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	filename := name
	if s.root != "" {
		filename = filepath.Join(s.root, name)
	}

	var tm v1beta1.TypeMeta

	err = yaml.Unmarshal(data, &tm)
	if err != nil {
		return yaml.NewErrorWrapper(yaml.WithSource(data), yaml.WithFilename(filename)).Wrap(err)
	}

	switch tm.Kind {
	case plugins.KindPlugin:
		m, err := config.NewLoaderFromBytes(data, func() *plugins.Plugin { return plugins.NewPlugin("") },
			plugins.DefaultPluginValidator, config.WithFilename(filename)).ValidateAndLoad()
		if err != nil {
			return err //nolint:wrapcheck // Annotated by the loader.
		}

		p, err := s.newPlugin(m)
		if err != nil {
			return err
		}
		if _, ok := s.plugins[p.Name()]; ok {
			return fmt.Errorf("%s: plugin %q: %w", filename, p.Name(), ErrDuplicate)
		}

		s.plugins[p.Name()] = p

	case plugins.KindSharedConfig:
		m, err := config.NewLoaderFromBytes(data, func() *plugins.SharedConfig { return plugins.NewSharedConfig("") },
			plugins.DefaultSharedConfigValidator, config.WithFilename(filename)).ValidateAndLoad()
		if err != nil {
			return err //nolint:wrapcheck // Annotated by the loader.
		}

		id := NormalizeConfigName(m.Name)
		if _, ok := s.shared[id]; ok {
			return fmt.Errorf("%s: shared config %q: %w", filename, id, ErrDuplicate)
		}

		l, err := m.Layer(id, s.root)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}

		s.shared[id] = l

	default:
		log.WithContext(ctx).WarnContext(ctx, "skipping file with unsupported kind",
			slog.String("path", filename),
			slog.String("kind", tm.Kind),
		)
	}

	return nil
}

func (s *FSSource) newPlugin(m *plugins.Plugin) (*Plugin, error) {
	name := NormalizePluginName(m.Name)
	configs := make(map[string]*layer.Layer, len(m.Configs))

	for _, cfgName := range m.ConfigNames() {
		ref := Ref{Kind: RefPlugin, Plugin: name, Name: cfgName}
		if name == CorePlugin {
			ref.Kind = RefCore
		}

		l, _, err := m.ConfigLayer(ref.ID(), s.root, cfgName)
		if err != nil {
			return nil, err //nolint:wrapcheck // Already names the plugin.
		}

		configs[cfgName] = l
	}

	rules := slices.Clone(m.Rules)
	for i, r := range rules {
		rules[i] = strings.TrimSpace(r)
	}

	return New(name, rules, configs), nil
}
