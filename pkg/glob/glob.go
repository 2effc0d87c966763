package glob

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned when a pattern cannot be compiled.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// Negation is the prefix that turns a pattern into an exclusion.
const Negation = "!"

// Matcher tests whether a path satisfies a single pattern.
type Matcher interface {
	Test(pattern, filePath string) (bool, error)
}

// DefaultMatcher is the [Matcher] used when none is provided.
var DefaultMatcher Matcher = PathMatcher{MatchBase: true}

// PathMatcher matches forward-slash paths with [doublestar] semantics.
type PathMatcher struct {
	// MatchBase matches patterns that contain no "/" against the last
	// element of the path, so "*.svelte" matches "src/App.svelte".
	MatchBase bool
}

// Test reports whether filePath matches pattern. A leading [Negation] is
// ignored; callers decide what a negated match means.
func (m PathMatcher) Test(pattern, filePath string) (bool, error) {
	pattern, _ = Split(pattern)
	if pattern == "" {
		return false, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	filePath = Normalize(filePath)

	target := filePath
	if m.MatchBase && !strings.Contains(pattern, "/") {
		target = path.Base(filePath)
	} else {
		pattern = strings.TrimPrefix(pattern, "./")
	}

	ok, err := doublestar.Match(pattern, target)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}

	return ok, nil
}

// Validate returns an error if the pattern cannot be compiled.
func Validate(pattern string) error {
	p, _ := Split(pattern)
	if p == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	if !doublestar.ValidatePattern(p) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	return nil
}

// Split removes a leading [Negation] from the pattern and reports whether it
// was present.
func Split(pattern string) (string, bool) {
	pattern = strings.TrimSpace(pattern)
	if strings.HasPrefix(pattern, Negation) {
		return strings.TrimPrefix(pattern, Negation), true
	}

	return pattern, false
}

// Normalize converts a path to the forward-slash, dot-free form that patterns
// are matched against.
func Normalize(filePath string) string {
	filePath = strings.ReplaceAll(filePath, "\\", "/")
	filePath = path.Clean(filePath)

	return strings.TrimPrefix(filePath, "./")
}
