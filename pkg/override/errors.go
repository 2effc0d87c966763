package override

import (
	"errors"
	"fmt"
)

// ErrInvalidCondition is returned when an override condition does not
// compile.
var ErrInvalidCondition = errors.New("invalid override condition")

// InvalidGlobPatternError describes a pattern that cannot be compiled.
type InvalidGlobPatternError struct {
	Err     error
	Pattern string
	// Layer is the id of the layer declaring the pattern: the owner of an
	// override, or a configuration list item.
	Layer string
	// Index is the position of the override within the layer, or of the
	// item within the configuration list.
	Index int
}

func (e *InvalidGlobPatternError) Error() string {
	return fmt.Sprintf("%s: entry %d: invalid glob pattern %q: %v", e.Layer, e.Index, e.Pattern, e.Err)
}

func (e *InvalidGlobPatternError) Unwrap() error {
	return e.Err
}
