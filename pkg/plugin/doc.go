// Package plugin provides the registry of named plugins and presets.
//
// A [Registry] resolves preset references such as "eslint:recommended",
// "plugin:react/recommended" and shareable config names to immutable layers,
// and plugin names to [Plugin] definitions. Lookups are delegated to an
// ordered list of [Source]s and memoized; the registry is safe for concurrent
// use.
package plugin
