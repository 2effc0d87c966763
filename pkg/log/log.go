// Package log builds the [slog.Handler] used by the lintcfg CLI and carries
// per-resolution loggers through [context.Context].
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/trace"

	charmlog "github.com/charmbracelet/log"
)

type (
	// Format selects how log records are written.
	Format string

	contextKey struct{}
)

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"

	// Trace IDs are shortened in log records, the exporter keeps them whole.
	traceIDLength = 8
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")

	// Levels lists the accepted --log-level values, most severe first.
	Levels = []string{"error", "warn", "info", "debug"}

	// Formats lists the accepted --log-format values.
	Formats = []string{string(FormatJSON), string(FormatLogfmt), string(FormatText)}

	levels = map[string]slog.Level{
		"error":   slog.LevelError,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
	}
)

// NewHandler parses level and format as given on the command line and
// returns the matching handler writing to w.
func NewHandler(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return Handler(w, lvl, f), nil
}

// Handler returns a handler for f. JSON and logfmt records include the source
// location; text records are rendered by charmbracelet/log with colors
// matching w.
func Handler(w io.Writer, level slog.Level, f Format) slog.Handler {
	opts := &slog.HandlerOptions{AddSource: true, Level: level}

	switch f {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	case FormatLogfmt:
		return slog.NewTextHandler(w, opts)
	case FormatText:
		return textHandler(w, level)
	}

	return nil
}

// ParseLevel converts a case-insensitive level name to a [slog.Level].
// "warning" is accepted as an alias of "warn".
func ParseLevel(s string) (slog.Level, error) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w %q (valid: %s)", ErrUnknownLevel, s, strings.Join(Levels, ", "))
	}

	return lvl, nil
}

// ParseFormat converts a case-insensitive format name to a [Format].
func ParseFormat(s string) (Format, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("%w %q (valid: %s)", ErrUnknownFormat, s, strings.Join(Formats, ", "))
	}

	return Format(f), nil
}

func textHandler(w io.Writer, level slog.Level) slog.Handler {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(level),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		ReportCaller:    level <= slog.LevelDebug,
		TimeFormat:      time.StampMilli,
	})
	logger.SetColorProfile(termenv.NewOutput(w).ColorProfile())

	return logger
}

// NewContext returns a copy of ctx that carries logger. [WithContext] returns
// it in place of the default logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// With returns a copy of ctx whose logger carries args. The engine uses it to
// tag every record of a resolution with the file being resolved.
func With(ctx context.Context, args ...any) context.Context {
	return NewContext(ctx, WithContext(ctx).With(args...))
}

// WithContext returns the logger for ctx: the one stored by [NewContext], or
// the default logger tagged with the active span's trace ID.
func WithContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return slog.Default()
	}

	id := sc.TraceID().String()

	return slog.With(slog.String("trace_id", id[:traceIDLength]))
}
