package glob

import "fmt"

// PatternError describes a pattern that failed to compile, with its position
// in the [PatternSet].
type PatternError struct {
	Err     error
	Pattern string
	Index   int
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %d %q: %v", e.Index, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// PatternSet is an ordered list of positive and negated patterns.
type PatternSet struct {
	matcher  Matcher
	patterns []string
}

// NewPatternSet creates a [PatternSet]. A nil matcher uses [DefaultMatcher].
func NewPatternSet(m Matcher, patterns ...string) *PatternSet {
	if m == nil {
		m = DefaultMatcher
	}

	return &PatternSet{
		matcher:  m,
		patterns: append([]string(nil), patterns...),
	}
}

// Patterns returns a copy of the patterns in the set.
func (s *PatternSet) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Validate checks every pattern in the set.
func (s *PatternSet) Validate() error {
	for i, p := range s.patterns {
		err := Validate(p)
		if err != nil {
			return &PatternError{Err: err, Pattern: p, Index: i}
		}
	}

	return nil
}

// Match evaluates the patterns in order. A positive pattern selects the path,
// and a later negated pattern deselects it again. A set with no positive
// patterns never matches. The whole set is validated first, so an invalid
// pattern fails every path and not only the paths that reach it.
func (s *PatternSet) Match(filePath string) (bool, error) {
	err := s.Validate()
	if err != nil {
		return false, err
	}

	matched := false

	for i, p := range s.patterns {
		_, negated := Split(p)

		// Skip patterns that cannot change the current state.
		if negated != matched {
			continue
		}

		ok, err := s.matcher.Test(p, filePath)
		if err != nil {
			return false, &PatternError{Err: err, Pattern: p, Index: i}
		}
		if ok {
			matched = !negated
		}
	}

	return matched, nil
}
