// Package layer defines immutable configuration layers.
//
// A [Layer] is one named bundle of configuration data that contributes to
// composition: rules, settings, parser, parser options, environments,
// plugins, extends references and file-scoped overrides. Layers are built
// from a declarative [Definition] and are never modified afterwards; every
// accessor returns a copy.
package layer
