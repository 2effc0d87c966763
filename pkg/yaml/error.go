package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	// Use the goccy/go-yaml PathBuilder to create a new YAMLPath.
	return &yaml.PathBuilder{}
}

type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap wraps an error with additional context for [Error]s.
// If the error isn't an [Error], it returns the original error unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range ew.Opts {
			opt(yamlErr)
		}

		for _, opt := range opts {
			opt(yamlErr)
		}

		return yamlErr
	}

	return err
}

// Error represents a YAML error. It includes the original error, and the
// [*token.Token] or [*yaml.Path] where the error occurred.
type Error struct {
	Err      error
	Path     *yaml.Path
	Token    *token.Token
	Filename string
	Source   []byte
	// Colored enables ANSI colors in the annotated source.
	Colored bool
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type ErrorOpt func(e *Error)

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

func WithFilename(name string) ErrorOpt {
	return func(e *Error) {
		e.Filename = name
	}
}

func WithColor(colored bool) ErrorOpt {
	return func(e *Error) {
		e.Colored = colored
	}
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}

	prefix := ""
	if e.Filename != "" {
		prefix = e.Filename + ": "
	}

	if e.Path == nil && e.Token == nil {
		return prefix + e.Err.Error()
	}

	tk, err := e.token()
	if err != nil {
		slog.Debug("failed to annotate config with error",
			slog.String("path", e.Path.String()),
			slog.Any("error", err),
		)
		// If we can't annotate the source, just return the error without it.
		return fmt.Sprintf("%serror at %s: %v", prefix, e.Path.String(), e.Err)
	}

	var pp printer.Printer

	src := lipgloss.NewStyle().
		PaddingTop(1).
		Render(pp.PrintErrorToken(tk, e.Colored))

	return fmt.Sprintf("%s[%d:%d] %v:\n%s", prefix, tk.Position.Line, tk.Position.Column, e.Err, src)
}

// Position returns the 1-based line and column of the error in the source,
// or zeros when the location is unknown.
func (e Error) Position() (int, int) {
	tk, err := e.token()
	if err != nil || tk == nil {
		return 0, 0
	}

	return tk.Position.Line, tk.Position.Column
}

func (e Error) token() (*token.Token, error) {
	if e.Token != nil {
		return e.Token, nil
	}
	if e.Path == nil || len(e.Source) == 0 {
		return nil, errors.New("no source location")
	}

	return getTokenFromPath(e.Source, e.Path)
}

func getTokenFromPath(source []byte, path *yaml.Path) (*token.Token, error) {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source bytes into ast.File: %w", err)
	}

	node, err := path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter from ast.File by YAMLPath: %w", err)
	}

	// Point at the KEY rather than the value returned by FilterFile.
	keyToken := findKeyToken(file, path)
	if keyToken != nil {
		return keyToken, nil
	}

	return node.GetToken(), nil
}

// findKeyToken attempts to find the KEY token for the given path by looking
// in the parent node.
func findKeyToken(file *ast.File, path *yaml.Path) *token.Token {
	pathStr := path.String()

	lastDot := strings.LastIndex(pathStr, ".")
	lastBracket := strings.LastIndex(pathStr, "[")

	if lastDot == -1 && lastBracket == -1 {
		return nil // Root path, no parent.
	}

	if lastDot <= lastBracket {
		// Array index case - no key to find.
		return nil
	}

	parentPathStr := pathStr[:lastDot]
	lastSegment := pathStr[lastDot+1:]

	parentPath, err := yaml.PathString(parentPathStr)
	if err != nil {
		return nil
	}

	parentNode, err := parentPath.FilterFile(file)
	if err != nil {
		return nil
	}

	if mapping, ok := parentNode.(*ast.MappingNode); ok {
		for _, val := range mapping.Values {
			if val.Key.String() == lastSegment {
				return val.Key.GetToken()
			}
		}
	}

	return nil
}
