package extends

import (
	"fmt"
	"strings"
)

// CyclicExtendsError is returned when a layer is reachable from itself.
type CyclicExtendsError struct {
	// Path lists the layer ids that form the cycle. The first and last
	// elements are the same layer.
	Path []string
}

func (e *CyclicExtendsError) Error() string {
	return "cyclic extends: " + strings.Join(e.Path, " -> ")
}

// UnknownExtendsReferenceError is returned when an extends reference names a
// preset or file that does not exist.
type UnknownExtendsReferenceError struct {
	Err       error
	Reference string
	// Layer is the id of the layer that declared the reference.
	Layer string
}

func (e *UnknownExtendsReferenceError) Error() string {
	return fmt.Sprintf("%s: unknown extends reference %q: %v", e.Layer, e.Reference, e.Err)
}

func (e *UnknownExtendsReferenceError) Unwrap() error {
	return e.Err
}
