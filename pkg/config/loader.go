package config

import (
	"bytes"
	"errors"
	"io"

	"github.com/macropower/lintcfg/api"
	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator Validator
	filename  string
	color     bool
}

// WithValidator sets a custom validator. A nil validator disables validation.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithFilename sets the file name reported in errors.
func WithFilename(name string) LoaderOpt {
	return func(o *loaderOptions) {
		o.filename = name
	}
}

// WithColor enables ANSI colors in annotated error output.
func WithColor(color bool) LoaderOpt {
	return func(o *loaderOptions) {
		o.color = color
	}
}

// Loader is a generic configuration loader that handles validation,
// YAML parsing, and error formatting for any document type T.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
// The newFunc parameter is the constructor for type T (e.g., configs.New).
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	options := &loaderOptions{
		validator: defaultValidator,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: options.validator,
		yamlError: yaml.NewErrorWrapper(
			yaml.WithSource(data),
			yaml.WithFilename(options.filename),
			yaml.WithColor(options.color),
		),
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	opts = append([]LoaderOpt{WithFilename(path)}, opts...)

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

// Validate validates the configuration data against the schema.
func (l *Loader[T]) Validate() error {
	var anyConfig any

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(&anyConfig)
	if isEOF(err) {
		// Empty documents are valid.
		anyConfig = map[string]any{}
	} else if err != nil {
		return l.yamlError.Wrap(err)
	}

	if l.validator != nil {
		err = l.validator.Validate(anyConfig)
		if err != nil {
			return l.yamlError.Wrap(err)
		}
	}

	return nil
}

// Load parses and returns the configuration.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	cfg := l.newFunc()

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(cfg)
	if err != nil && !isEOF(err) {
		var zero T
		return zero, l.yamlError.Wrap(err)
	}

	cfg.EnsureDefaults()

	return cfg, nil
}

// ValidateAndLoad calls [Loader.Validate] followed by [Loader.Load].
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) ValidateAndLoad() (T, error) {
	err := l.Validate()
	if err != nil {
		var zero T
		return zero, err
	}

	return l.Load()
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
