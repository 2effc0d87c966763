// Package extends resolves the ancestors of a configuration layer.
//
// Each layer's extends references are followed depth-first in declaration
// order. A reference is either a preset resolved through a [Presets]
// implementation, or a path to another configuration file loaded through a
// [Loader]. The result lists every ancestor exactly once, least specific
// first, ahead of every layer that extends it.
package extends
