package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/macropower/lintcfg/api"
	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/api/v1beta1/configs"
	"github.com/macropower/lintcfg/pkg/layer"
	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/yaml"
)

var (
	// ErrNotFound is returned when no configuration file can be found.
	ErrNotFound = errors.New("configuration file not found")

	// ErrUnsupportedKind is returned for documents of an unknown kind, or of
	// a kind that cannot be used in the current position.
	ErrUnsupportedKind = errors.New("unsupported document kind")

	// FileNames contains the configuration file names searched for by
	// [Find], in order of preference.
	FileNames = []string{
		".lintcfg.yaml",
		"lintcfg.yaml",
		".lintcfg.yml",
		"lintcfg.yml",
	}
)

// Document is a loaded configuration document.
type Document struct {
	// Path is the absolute path of the document.
	Path string
	// Kind is the document kind, see [configs.ValidKinds].
	Kind string
	// Layers are the document's layers. A Config document has exactly one
	// layer; a ConfigList has one per entry.
	Layers []*layer.Layer
}

// Dir returns the directory containing the document.
func (d *Document) Dir() string {
	return filepath.Dir(d.Path)
}

// FileLoader loads configuration files into layers. The layer id of a file
// is its absolute path.
type FileLoader struct {
	opts []LoaderOpt
}

// NewFileLoader creates a new [FileLoader]. The options are passed to every
// [Loader] it creates.
func NewFileLoader(opts ...LoaderOpt) *FileLoader {
	return &FileLoader{opts: opts}
}

// LoadDocument reads, validates and converts the document at path.
func (fl *FileLoader) LoadDocument(ctx context.Context, path string) (*Document, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	data, err := api.ReadFile(absPath)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	kind, err := fl.readKind(absPath, data)
	if err != nil {
		return nil, err
	}

	log.WithContext(ctx).DebugContext(ctx, "load config",
		slog.String("path", absPath),
		slog.String("kind", kind),
	)

	doc := &Document{Path: absPath, Kind: kind}
	opts := append([]LoaderOpt{WithFilename(absPath)}, fl.opts...)
	dir := filepath.Dir(absPath)

	switch kind {
	case configs.KindConfig:
		cfg, err := NewLoaderFromBytes(data, configs.New, configs.DefaultValidator, opts...).ValidateAndLoad()
		if err != nil {
			return nil, err //nolint:wrapcheck // Annotated by the loader.
		}

		l, err := cfg.Layer(absPath, dir)
		if err != nil {
			return nil, err //nolint:wrapcheck // Already names the document.
		}

		doc.Layers = []*layer.Layer{l}

	case configs.KindConfigList:
		list, err := NewLoaderFromBytes(data, configs.NewList, configs.DefaultListValidator, opts...).ValidateAndLoad()
		if err != nil {
			return nil, err //nolint:wrapcheck // Annotated by the loader.
		}

		doc.Layers, err = list.Layers(absPath, dir)
		if err != nil {
			return nil, err //nolint:wrapcheck // Already names the document.
		}

	default:
		return nil, fmt.Errorf("%s: %w: %q", absPath, ErrUnsupportedKind, kind)
	}

	return doc, nil
}

// LoadLayer loads the single-layer Config document at path. It is used to
// resolve extends references to other files.
func (fl *FileLoader) LoadLayer(ctx context.Context, path string) (*layer.Layer, error) {
	doc, err := fl.LoadDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	if doc.Kind != configs.KindConfig {
		return nil, fmt.Errorf("%s: %w: %s cannot be extended", doc.Path, ErrUnsupportedKind, doc.Kind)
	}

	return doc.Layers[0], nil
}

func (fl *FileLoader) readKind(path string, data []byte) (string, error) {
	var tm v1beta1.TypeMeta

	err := yaml.Unmarshal(data, &tm)
	if err != nil && !isEOF(err) {
		opts := &loaderOptions{}
		for _, opt := range fl.opts {
			opt(opts)
		}

		return "", yaml.NewErrorWrapper(
			yaml.WithSource(data),
			yaml.WithFilename(path),
			yaml.WithColor(opts.color),
		).Wrap(err)
	}

	if tm.Kind == "" {
		return configs.KindConfig, nil
	}
	if !slices.Contains(configs.ValidKinds, tm.Kind) {
		return "", fmt.Errorf("%s: %w: %q", path, ErrUnsupportedKind, tm.Kind)
	}

	return tm.Kind, nil
}

// Find returns the configuration file that applies to target, searching
// upward from its directory for any of [FileNames].
func Find(target string) (string, error) {
	path, err := api.FindConfigFile(target, FileNames)
	if err != nil {
		return "", fmt.Errorf("find config: %w", err)
	}
	if path == "" {
		return "", fmt.Errorf("%w for %s", ErrNotFound, target)
	}

	return path, nil
}
